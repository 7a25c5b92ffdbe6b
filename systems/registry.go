package systems

// Stage IDs in pipeline order. Perf tracking and the viewer use these names.
const (
	StageHeading     = "heading"
	StageChain       = "chain"
	StageContainment = "containment"
	StageCollision   = "collision"
	StageSpawner     = "spawner"
)

// SystemInfo describes a pipeline stage for display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this stage does
	Category    string // Grouping (e.g., "movement", "world")
}

// SystemRegistry holds metadata about all stages in execution order.
// This centralizes stage naming so the viewer and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with the tick pipeline registered.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the pipeline stages. Registration order is execution order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: StageHeading, Name: "Heading", Description: "Turns the head toward the pointer and moves it", Category: "movement"})
	r.Register(SystemInfo{ID: StageChain, Name: "Chain", Description: "Pulls body segments after the head", Category: "movement"})
	r.Register(SystemInfo{ID: StageContainment, Name: "Containment", Description: "Keeps the head inside the play area", Category: "movement"})
	r.Register(SystemInfo{ID: StageCollision, Name: "Collision", Description: "Tests the head against all colliders", Category: "world"})
	r.Register(SystemInfo{ID: StageSpawner, Name: "Food Spawner", Description: "Places food on a timer", Category: "world"})
}

// Register adds a stage to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns stage info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a stage ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered stages.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all stage IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
