package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Concurrency is the worker parallelism hint: either a worker count ("4")
// or a share of the available CPUs ("50%").
type Concurrency string

// Workers returns the number of workers to use on a machine with cpus
// processors. The result is never below 1; an unparsable value yields 1.
func (c Concurrency) Workers(cpus int) int {
	count, percent, err := c.parse()
	if err != nil {
		return 1
	}
	if count > 0 {
		return count
	}
	n := int(math.Floor(float64(cpus) * percent / 100))
	if n < 1 {
		return 1
	}
	return n
}

// IsPercent reports whether the hint is a share of the CPUs.
func (c Concurrency) IsPercent() bool {
	return strings.HasSuffix(strings.TrimSpace(string(c)), "%")
}

func (c Concurrency) String() string {
	return string(c)
}

// parse returns either a positive count or a percentage in (0,100].
func (c Concurrency) parse() (count int, percent float64, err error) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return 0, 0, fmt.Errorf("worker concurrency cannot be empty")
	}

	if p, ok := strings.CutSuffix(s, "%"); ok {
		percent, err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid percentage %q", s)
		}
		if percent <= 0 || percent > 100 {
			return 0, 0, fmt.Errorf("percentage must be in (0,100], got %s", s)
		}
		return 0, percent, nil
	}

	count, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid worker count %q", s)
	}
	if count < 1 {
		return 0, 0, fmt.Errorf("worker count must be at least 1, got %d", count)
	}
	return count, 0, nil
}

// MarshalJSON implements json.Marshaler. Counts are written as numbers,
// percentages as strings.
func (c Concurrency) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(string(c))); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Concurrency) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Concurrency(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("worker concurrency must be a number or a percentage string")
	}
	*c = Concurrency(integralCount(n.String()))
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Concurrency) MarshalYAML() (interface{}, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(string(c))); err == nil {
		return n, nil
	}
	return string(c), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Concurrency) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: worker concurrency must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!float" {
		*c = Concurrency(integralCount(node.Value))
		return nil
	}
	*c = Concurrency(node.Value)
	return nil
}

// integralCount rewrites a number with no fractional part, such as "4.0" or
// "4e0", as a plain integer. Anything else is returned unchanged.
func integralCount(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return s
	}
	return strconv.Itoa(int(f))
}
