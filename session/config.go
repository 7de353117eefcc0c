package session

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrConfiguration is returned for impossible width or threshold settings.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrDegenerateInput is returned when a sequence set is empty or holds
	// a zero-length sequence.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrTimeout is returned by Check once the deadline has passed.
	ErrTimeout = errors.New("time limit exceeded")
)

// Unset marks a width left for Resolve to fill in.
const Unset = -1

// Config holds every search parameter of one run.
type Config struct {
	GivenOnly    bool          `yaml:"norc"`
	MinW         int           `yaml:"minw"`
	MaxW         int           `yaml:"maxw"`
	MinK         int           `yaml:"mink"`
	MaxK         int           `yaml:"maxk"`
	NGen         int           `yaml:"ngen"`
	NRef         int           `yaml:"nref"`
	AddPThresh   float64       `yaml:"add_pthresh"`
	EThresh      float64       `yaml:"ethresh"`
	MaxMotifs    int           `yaml:"max_motifs"` // 0 for no limit
	MaxTime      time.Duration `yaml:"max_time"`   // 0 for no limit
	UseConsensus bool          `yaml:"consensus"`
	Threads      int           `yaml:"threads"`
	Seed         int64         `yaml:"seed"`
}

// Defaults returns the configuration used when nothing is specified.
func Defaults() Config {
	return Config{
		MinW:       Unset,
		MaxW:       Unset,
		MinK:       3,
		MaxK:       8,
		NGen:       100,
		NRef:       1,
		AddPThresh: 0.01,
		EThresh:    0.05,
		Threads:    1,
		Seed:       1,
	}
}

// Decode reads YAML parameters into c. Keys absent from the document keep
// their current values.
func (c *Config) Decode(r io.Reader) error {
	err := yaml.NewDecoder(r).Decode(c)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Resolve fills in unset widths and clips the core widths to the final
// width, then validates the result.
func (c *Config) Resolve() error {
	if c.MinW != Unset && c.MaxW == Unset {
		c.MaxW = c.MinW
	}
	if c.MinW == Unset {
		c.MinW = c.MinK
	}
	if c.MaxW == Unset {
		c.MaxW = c.MaxK
	}
	if c.MinK > c.MaxK {
		return fmt.Errorf("%w: mink (%d) must not be greater than maxk (%d)", ErrConfiguration, c.MinK, c.MaxK)
	}
	c.MaxK = min(c.MaxW, c.MaxK)
	c.MinK = min(c.MaxW, c.MinK)
	return c.Validate()
}

// Validate checks a resolved configuration.
func (c *Config) Validate() error {
	switch {
	case c.MinW < 1 || c.MinK < 1:
		return fmt.Errorf("%w: widths must be positive", ErrConfiguration)
	case c.MinW > c.MaxW:
		return fmt.Errorf("%w: minw (%d) must not be greater than maxw (%d)", ErrConfiguration, c.MinW, c.MaxW)
	case c.MinK > c.MaxK:
		return fmt.Errorf("%w: mink (%d) must not be greater than maxk (%d)", ErrConfiguration, c.MinK, c.MaxK)
	case c.MaxK > c.MaxW:
		return fmt.Errorf("%w: maxk (%d) must not be greater than maxw (%d)", ErrConfiguration, c.MaxK, c.MaxW)
	case c.NGen < 1 || c.NRef < 1:
		return fmt.Errorf("%w: ngen and nref must be positive", ErrConfiguration)
	case c.AddPThresh <= 0 || c.AddPThresh > 1:
		return fmt.Errorf("%w: add_pthresh must be in (0,1]", ErrConfiguration)
	case c.EThresh <= 0:
		return fmt.Errorf("%w: ethresh must be positive", ErrConfiguration)
	case c.MaxMotifs < 0 || c.MaxTime < 0:
		return fmt.Errorf("%w: stop limits must not be negative", ErrConfiguration)
	}
	return nil
}

// LogAddPThresh is the natural log of the significance threshold for
// adding a word to a pattern.
func (c *Config) LogAddPThresh() float64 {
	return math.Log(c.AddPThresh)
}

// LogEThresh is the natural log of the E-value stop threshold.
func (c *Config) LogEThresh() float64 {
	return math.Log(c.EThresh)
}
