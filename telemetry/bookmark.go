package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFeedingStreak BookmarkType = "feeding_streak"
	BookmarkStarving      BookmarkType = "starving"
	BookmarkFoodGlut      BookmarkType = "food_glut"
	BookmarkWallHugging   BookmarkType = "wall_hugging"
	BookmarkSelfBite      BookmarkType = "self_bite"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable windows of a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	hungryWindows int // consecutive windows with food on the field and nothing eaten
	glutPeak      int // food count at the last glut bookmark
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.SelfBites > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkSelfBite,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Head bit its own body with score %.0f", stats.Score),
		})
	}
	if b := bd.checkFeedingStreak(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStarving(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFoodGlut(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkWallHugging(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

// Reset forgets the window history and the running streaks.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.hungryWindows = 0
	bd.glutPeak = 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkFeedingStreak fires when a window eats more than twice the rolling average.
func (bd *BookmarkDetector) checkFeedingStreak(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.FoodsConsumed
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 || stats.FoodsConsumed < 3 {
		return nil
	}

	if float64(stats.FoodsConsumed) > avg*2 {
		return &Bookmark{
			Type:        BookmarkFeedingStreak,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Ate %d foods, %.1fx the average (%.1f)", stats.FoodsConsumed, float64(stats.FoodsConsumed)/avg, avg),
		}
	}
	return nil
}

// checkStarving fires once after three windows with food available and none eaten.
func (bd *BookmarkDetector) checkStarving(stats WindowStats) *Bookmark {
	if stats.FoodsConsumed > 0 || stats.FoodCount == 0 {
		bd.hungryWindows = 0
		return nil
	}
	bd.hungryWindows++
	if bd.hungryWindows != 3 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStarving,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Nothing eaten for 3 windows with %d foods on the field", stats.FoodCount),
	}
}

// checkFoodGlut fires when outstanding food doubles since the last glut.
func (bd *BookmarkDetector) checkFoodGlut(stats WindowStats) *Bookmark {
	if stats.FoodCount < 10 {
		return nil
	}
	if bd.glutPeak > 0 && stats.FoodCount < bd.glutPeak*2 {
		return nil
	}
	old := bd.glutPeak
	bd.glutPeak = stats.FoodCount
	return &Bookmark{
		Type:        BookmarkFoodGlut,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Outstanding food grew from %d to %d", old, stats.FoodCount),
	}
}

// checkWallHugging fires when the head was corrected on most ticks of the window.
func (bd *BookmarkDetector) checkWallHugging(stats WindowStats) *Bookmark {
	ticks := stats.WindowEndTick - stats.WindowStartTick
	if ticks <= 0 {
		return nil
	}
	frac := float64(stats.Corrections) / float64(ticks)
	if frac < 0.5 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkWallHugging,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Head held at the boundary for %.0f%% of the window", frac*100),
	}
}
