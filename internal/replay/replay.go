// Package replay records the controller input stream a simulation
// consumed, together with the run's seed, and loads it back. It stores and
// reads inputs only; it contains no Controller that feeds a loaded Session
// back into a Field. This is supplemental to spec.md: the
// core's "no persistence of the live simulation" non-goal excludes
// snapshotting live state, not recording the inputs that reproduce it.
//
// The binary format is modeled on the teacher's
// internal/infrastructure/storage: a fixed magic-header struct written
// whole with encoding/binary, followed by one fixed-size record per input.
package replay

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	magicHeader = "SPNR"
	formatVersion uint32 = 1
)

// fileHeader is written and read whole via binary.Write/Read: only fixed-
// width fields, no slices or strings.
type fileHeader struct {
	Magic       [4]byte
	Version     uint32
	Seed        int64
	RecordCount uint32
}

// record is one controller decision for one bot on one frame.
type record struct {
	Frame            uint64
	BotGUID          uint64
	TargetHeadingDeg float64
	Boost            uint8
}

// Input is the decoded form of one recorded record.
type Input struct {
	Frame            uint64
	BotGUID          uint64
	TargetHeadingDeg float64
	Boost            bool
}

// Recorder accumulates Inputs across a run for later writing to disk.
type Recorder struct {
	seed   int64
	inputs []record
}

// NewRecorder starts a recording for a run seeded with seed.
func NewRecorder(seed int64) *Recorder {
	return &Recorder{seed: seed}
}

// Record appends one bot's decision for the given frame.
func (r *Recorder) Record(frame, botGUID uint64, targetHeadingDeg float64, boost bool) {
	var b uint8
	if boost {
		b = 1
	}
	r.inputs = append(r.inputs, record{
		Frame:            frame,
		BotGUID:          botGUID,
		TargetHeadingDeg: targetHeadingDeg,
		Boost:            b,
	})
}

// Save writes the recording to path in the binary record format.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer f.Close()

	if err := r.writeTo(f); err != nil {
		return fmt.Errorf("write replay file: %w", err)
	}
	return nil
}

func (r *Recorder) writeTo(w io.Writer) error {
	header := fileHeader{
		Version:     formatVersion,
		Seed:        r.seed,
		RecordCount: uint32(len(r.inputs)),
	}
	copy(header.Magic[:], magicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range r.inputs {
		if err := binary.Write(w, binary.LittleEndian, &r.inputs[i]); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return nil
}

// Session is a fully loaded recording, ready to drive a deterministic
// replay run.
type Session struct {
	Seed   int64
	Inputs []Input
}

// Load reads a recording previously written by Recorder.Save.
func Load(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	return readFrom(f)
}

func readFrom(r io.Reader) (*Session, error) {
	var header fileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(header.Magic[:]) != magicHeader {
		return nil, fmt.Errorf("not a replay file: bad magic")
	}
	if header.Version != formatVersion {
		return nil, fmt.Errorf("unsupported replay version %d (want %d)", header.Version, formatVersion)
	}

	session := &Session{
		Seed:   header.Seed,
		Inputs: make([]Input, header.RecordCount),
	}

	for i := 0; i < int(header.RecordCount); i++ {
		var rec record
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		session.Inputs[i] = Input{
			Frame:            rec.Frame,
			BotGUID:          rec.BotGUID,
			TargetHeadingDeg: rec.TargetHeadingDeg,
			Boost:            rec.Boost != 0,
		}
	}

	return session, nil
}

// ForFrame returns every input recorded for the given frame, in recording
// order: the decisions the bots' Controllers made on that frame.
func (s *Session) ForFrame(frame uint64) []Input {
	var out []Input
	for _, in := range s.Inputs {
		if in.Frame == frame {
			out = append(out, in)
		}
	}
	return out
}
