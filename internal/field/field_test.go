package field

import (
	"errors"
	"math"
	"testing"

	"github.com/Bytewerk/spn-gameserver/internal/bot"
	"github.com/Bytewerk/spn-gameserver/internal/config"
	"github.com/Bytewerk/spn-gameserver/internal/events"
)

func targetLengthForTest(cfg config.Config, mass float64) int {
	n := int(math.Pow(mass, cfg.SnakeLengthExponent) + 0.5)
	if n < 2 {
		n = 2
	}
	return n
}

type fakeTracker struct {
	foodSpawned   int
	foodDecayed   int
	foodConsumed  int
	botsMoved     int
	botsKilled    int
	ticks         int
}

func (t *fakeTracker) FoodSpawned(id uint64, x, y, value float64, isDynamic bool) { t.foodSpawned++ }
func (t *fakeTracker) FoodDecayed(id uint64)                                      { t.foodDecayed++ }
func (t *fakeTracker) FoodConsumed(botID, foodID uint64)                          { t.foodConsumed++ }
func (t *fakeTracker) BotSpawned(id uint64, name string, segments []events.Point, mass, heading float64, color uint32) {
}
func (t *fakeTracker) BotMoved(botID uint64, newSegments []events.Point, currentSegmentRadius float64, currentLength int) {
	t.botsMoved++
}
func (t *fakeTracker) BotKilled(killerID, victimID uint64) { t.botsKilled++ }
func (t *fakeTracker) BotStats(botID uint64, score, mass float64) {}
func (t *fakeTracker) BotLog(viewerKey uint64, text string)       {}
func (t *fakeTracker) Tick(frameID uint64)                        { t.ticks++ }
func (t *fakeTracker) GameInfo(worldSizeX, worldSizeY, foodDecayPerFrame float64) {}
func (t *fakeTracker) WorldState(bots []events.BotSnapshot, food []events.FoodSnapshot) {}
func (t *fakeTracker) Serialize() []byte { return nil }
func (t *fakeTracker) Reset()            {}

var _ events.Tracker = (*fakeTracker)(nil)

type straightController struct {
	heading float64
	boost   bool
}

func (c *straightController) Init(self *bot.Bot) error { return nil }
func (c *straightController) Step(view bot.View) bot.Decision {
	return bot.Decision{TargetHeadingDeg: c.heading, Boost: c.boost}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.FieldSizeX = 100
	cfg.FieldSizeY = 100
	cfg.FieldStaticFood = 20
	cfg.BotWorkerCount = 2
	return cfg
}

func TestNewCreatesStaticFood(t *testing.T) {
	cfg := testConfig()
	tr := &fakeTracker{}
	f := New(cfg, tr, 1)
	defer f.Shutdown()

	if got := f.foodIndex.Len(); got != cfg.FieldStaticFood {
		t.Errorf("foodIndex.Len() = %d, want %d", got, cfg.FieldStaticFood)
	}
	if tr.foodSpawned != cfg.FieldStaticFood {
		t.Errorf("foodSpawned events = %d, want %d", tr.foodSpawned, cfg.FieldStaticFood)
	}
}

func TestSpawnBotAddsToLiveSet(t *testing.T) {
	cfg := testConfig()
	tr := &fakeTracker{}
	f := New(cfg, tr, 1)
	defer f.Shutdown()

	b, err := f.SpawnBot("alice", 1, 0xff0000, &straightController{heading: 0})
	if err != nil {
		t.Fatalf("SpawnBot: %v", err)
	}
	if len(f.Bots()) != 1 || f.Bots()[0] != b {
		t.Errorf("Bots() = %v, want [%v]", f.Bots(), b)
	}
	if f.BotByDatabaseID(1) != b {
		t.Errorf("BotByDatabaseID(1) = %v, want %v", f.BotByDatabaseID(1), b)
	}
}

type failingController struct{}

func (c *failingController) Init(self *bot.Bot) error   { return errors.New("init failed") }
func (c *failingController) Step(bot.View) bot.Decision { return bot.Decision{} }

func TestSpawnBotRejectsOnInitFailure(t *testing.T) {
	cfg := testConfig()
	tr := &fakeTracker{}
	f := New(cfg, tr, 1)
	defer f.Shutdown()

	_, err := f.SpawnBot("bad", 2, 0, &failingController{})
	if err == nil {
		t.Fatalf("SpawnBot() = nil error, want error")
	}
	if len(f.Bots()) != 0 {
		t.Errorf("Bots() = %v, want empty after failed init", f.Bots())
	}
}

func TestTickAdvancesFrameAndMovesBot(t *testing.T) {
	cfg := testConfig()
	tr := &fakeTracker{}
	f := New(cfg, tr, 1)
	defer f.Shutdown()

	b, err := f.SpawnBot("alice", 1, 0, &straightController{heading: 0})
	if err != nil {
		t.Fatalf("SpawnBot: %v", err)
	}
	start := b.Snake.HeadPosition()

	f.Tick()

	if f.CurrentFrame() != 1 {
		t.Errorf("CurrentFrame() = %d, want 1", f.CurrentFrame())
	}
	if tr.ticks != 1 {
		t.Errorf("ticks = %d, want 1", tr.ticks)
	}
	if len(f.Bots()) != 1 {
		t.Fatalf("Bots() = %v, want 1 survivor", f.Bots())
	}
	if b.Snake.HeadPosition() == start {
		t.Errorf("head position did not change after Tick()")
	}
}

func TestTickKeepsLiveBotInvariants(t *testing.T) {
	cfg := testConfig()
	tr := &fakeTracker{}
	f := New(cfg, tr, 1)
	defer f.Shutdown()

	if _, err := f.SpawnBot("alice", 1, 0, &straightController{heading: 10}); err != nil {
		t.Fatalf("SpawnBot: %v", err)
	}
	if _, err := f.SpawnBot("bob", 2, 0, &straightController{heading: -40}); err != nil {
		t.Fatalf("SpawnBot: %v", err)
	}

	for i := 0; i < 20; i++ {
		f.Tick()
	}

	for _, b := range f.Bots() {
		want := targetLengthForTest(cfg, b.Snake.Mass)
		if len(b.Snake.Segments) != want {
			t.Errorf("bot %d: len(Segments) = %d, want %d (mass %v)", b.GUID, len(b.Snake.Segments), want, b.Snake.Mass)
		}
		for _, seg := range b.Snake.Segments {
			if seg.Position.X < 0 || seg.Position.X >= cfg.FieldSizeX || seg.Position.Y < 0 || seg.Position.Y >= cfg.FieldSizeY {
				t.Errorf("bot %d segment out of bounds: %+v", b.GUID, seg.Position)
			}
		}
	}
}
