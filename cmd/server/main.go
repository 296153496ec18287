package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bytewerk/spn-gameserver/internal/config"
	"github.com/Bytewerk/spn-gameserver/internal/events"
	"github.com/Bytewerk/spn-gameserver/internal/field"
	"github.com/Bytewerk/spn-gameserver/internal/refai"
	"github.com/Bytewerk/spn-gameserver/internal/replay"
	"github.com/Bytewerk/spn-gameserver/internal/version"
	"github.com/Bytewerk/spn-gameserver/pkg/logger"
	"github.com/Bytewerk/spn-gameserver/pkg/utils"

	"github.com/gorilla/websocket"
)

func init() {
	logger.Init()
}

func main() {
	var (
		seed       int64
		listenAddr string
		botCount   int
		tickRate   float64
		replayPath string
	)
	flag.Int64Var(&seed, "seed", 0, "world PRNG seed (0 for random)")
	flag.StringVar(&listenAddr, "listen", ":8080", "HTTP listen address for the viewer websocket")
	flag.IntVar(&botCount, "bots", 8, "number of reference seek-food bots to spawn")
	flag.Float64Var(&tickRate, "tickrate", 20, "simulation ticks per second")
	flag.StringVar(&replayPath, "record", "", "if set, record inputs to this path on shutdown")
	flag.Parse()

	log := logger.Component("main")
	runID := utils.GenerateID()
	log.WithField("run", runID).Info(version.String())

	if seed == 0 {
		seed = rand.Int63()
	}
	log.WithField("seed", seed).Info("starting simulation")

	cfg := config.Default()
	tracker := events.NewMsgPackTracker()
	f := field.New(cfg, tracker, seed)
	defer f.Shutdown()

	recorder := replay.NewRecorder(seed)

	for i := 0; i < botCount; i++ {
		name := fmt.Sprintf("bot-%d", i+1)
		ctrl := refai.NewSeekFood(name)
		if _, err := f.SpawnBot(name, int64(i+1), 0x00ff00, ctrl); err != nil {
			log.WithError(err).WithField("bot", name).Warn("failed to spawn reference bot")
		}
	}

	h := newHub()

	// joins carries newly-upgraded connections to the tick-loop goroutine,
	// which is the only goroutine allowed to touch f and tracker: both are
	// built for single-threaded orchestrator use (spec.md §5), so a viewer's
	// initial snapshot must be produced there rather than from the HTTP
	// handler's own goroutine.
	joins := make(chan *viewerClient, 8)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.String()))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("websocket upgrade failed")
			return
		}

		viewerKey := uint64(time.Now().UnixNano())
		client := &viewerClient{
			viewerKey: viewerKey,
			conn:      conn,
			send:      h.register(viewerKey),
			hub:       h,
		}
		joins <- client
	})

	srv := &http.Server{Addr: listenAddr, Handler: mux}
	go func() {
		log.WithField("addr", listenAddr).Info("viewer websocket server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickRate))
	defer ticker.Stop()

	for {
		select {
		case client := <-joins:
			f.EmitGameInfo()
			f.EmitWorldState()
			if snapshot := tracker.Serialize(); len(snapshot) > 0 {
				client.conn.WriteMessage(websocket.BinaryMessage, snapshot)
			}
			go client.writePump()
			go client.readPump()

		case <-ticker.C:
			f.Tick()
			for _, b := range f.Bots() {
				decision := f.LastDecision(b.GUID)
				recorder.Record(f.CurrentFrame(), b.GUID, decision.TargetHeadingDeg, decision.Boost)
			}
			if frame := tracker.Serialize(); len(frame) > 0 {
				h.broadcast(frame)
			}

		case <-stop:
			log.Info("shutting down")
			srv.Close()
			if replayPath != "" {
				if err := recorder.Save(replayPath); err != nil {
					log.WithError(err).Warn("failed to save replay")
				}
			}
			return
		}
	}
}
