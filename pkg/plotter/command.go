package plotter

import (
	"strconv"
	"strings"

	"github.com/sdjayna/penplot/pkg/errors"
)

// Command names a plotter action.
type Command string

const (
	CommandPlot          Command = "plot"
	CommandToggle        Command = "toggle"
	CommandAlign         Command = "align"
	CommandCycle         Command = "cycle"
	CommandHome          Command = "home"
	CommandDisableMotors Command = "disable_motors"
	CommandRaisePen      Command = "raise_pen"
	CommandStopPlot      Command = "stop_plot"
)

// Commands lists every command in the order the CLI shows them.
var Commands = []Command{
	CommandPlot, CommandToggle, CommandAlign, CommandCycle,
	CommandHome, CommandDisableMotors, CommandRaisePen, CommandStopPlot,
}

// ParseCommand resolves a command name.
func ParseCommand(s string) (Command, error) {
	for _, c := range Commands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidCommand, "Unknown command: %s", s)
}

// Request is the body of POST /plotter. Pen values left nil fall back to
// the server's [Settings].
type Request struct {
	Command      string `json:"command"`
	Layer        *int   `json:"layer,omitempty"`
	LayerLabel   string `json:"layerLabel,omitempty"`
	SVG          string `json:"svg,omitempty"`
	PenPosUp     *int   `json:"pen_pos_up,omitempty"`
	PenPosDown   *int   `json:"pen_pos_down,omitempty"`
	PenRateLower *int   `json:"pen_rate_lower,omitempty"`
}

// Response is the body returned by POST /plotter and, on failure, by
// POST /save-svg.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
}

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Settings describes the plotter hardware and the axicli defaults.
type Settings struct {
	// Axicli is the executable path.
	Axicli       string
	Model        int
	Penlift      int
	PenPosUp     int
	PenPosDown   int
	PenRateLower int
}

// DefaultPenRateLower is axicli's pen lowering rate when none is set.
const DefaultPenRateLower = 25

// DefaultSettings returns settings for an AxiDraw V3/A3 with the standard
// servo.
func DefaultSettings() Settings {
	return Settings{
		Axicli:       "axicli",
		Model:        2,
		Penlift:      1,
		PenPosUp:     60,
		PenPosDown:   30,
		PenRateLower: DefaultPenRateLower,
	}
}

type pen struct{ up, down, rate int }

func (s Settings) pen(req Request) (pen, error) {
	p := pen{up: s.PenPosUp, down: s.PenPosDown, rate: s.PenRateLower}
	if p.rate == 0 {
		p.rate = DefaultPenRateLower
	}
	if req.PenPosUp != nil {
		p.up = *req.PenPosUp
	}
	if req.PenPosDown != nil {
		p.down = *req.PenPosDown
	}
	if req.PenRateLower != nil {
		p.rate = *req.PenRateLower
	}
	for _, v := range []struct {
		name  string
		value int
	}{{"pen_pos_up", p.up}, {"pen_pos_down", p.down}, {"pen_rate_lower", p.rate}} {
		if v.value < 0 || v.value > 100 {
			return pen{}, errors.New(errors.ErrCodeInvalidInput, "%s must be between 0 and 100, got %d", v.name, v.value)
		}
	}
	return p, nil
}

// Invocations returns the axicli argument lists, without the executable,
// that carry out cmd. Home needs two invocations; stop_plot needs none.
// For plot, svgPath is passed as the input file when not empty.
func (s Settings) Invocations(cmd Command, req Request, svgPath string) ([][]string, error) {
	p, err := s.pen(req)
	if err != nil {
		return nil, err
	}
	model, penlift := itoa(s.Model), itoa(s.Penlift)
	up, down, rate := itoa(p.up), itoa(p.down), itoa(p.rate)

	manual := func(op string) []string {
		return []string{"--mode", "manual", "--manual_cmd", op, "--model", model, "--pen_pos_up", up, "--penlift", penlift}
	}

	switch cmd {
	case CommandPlot:
		if req.Layer == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "No layer specified in plot command")
		}
		if *req.Layer < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layer must not be negative, got %d", *req.Layer)
		}
		var args []string
		if svgPath != "" {
			args = append(args, svgPath)
		}
		args = append(args,
			"--mode", "layers",
			"--layer", itoa(*req.Layer),
			"--model", model,
			"--pen_pos_up", up,
			"--pen_pos_down", down,
			"--pen_rate_lower", rate,
			"--penlift", penlift,
			"--progress",
		)
		return [][]string{args}, nil
	case CommandToggle, CommandCycle:
		return [][]string{{
			"--mode", string(cmd),
			"--model", model,
			"--pen_pos_up", up,
			"--pen_pos_down", down,
			"--pen_rate_lower", rate,
			"--penlift", penlift,
		}}, nil
	case CommandAlign:
		return [][]string{{
			"--mode", "align",
			"--model", model,
			"--pen_pos_up", up,
			"--pen_pos_down", down,
			"--penlift", penlift,
		}}, nil
	case CommandDisableMotors:
		return [][]string{{"--mode", "manual", "--manual_cmd", "disable_xy", "--model", model, "--penlift", penlift}}, nil
	case CommandRaisePen:
		return [][]string{manual("raise_pen")}, nil
	case CommandHome:
		return [][]string{manual("raise_pen"), manual("walk_home")}, nil
	case CommandStopPlot:
		return nil, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidCommand, "Unknown command: %s", cmd)
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Axicli) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "axicli path is required")
	}
	if s.Model < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "model must be positive, got %d", s.Model)
	}
	_, err := s.pen(Request{})
	return err
}

func itoa(v int) string { return strconv.Itoa(v) }
