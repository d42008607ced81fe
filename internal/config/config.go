// Package config loads example scenarios from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is an example scenario
type Config struct {
	// Seed seeds all random sources of the scenario
	Seed uint64 `yaml:"seed"`
	// Workers is the number of goroutines running the filter models
	Workers int `yaml:"workers"`
	// Output is the path of the generated plot
	Output string `yaml:"output"`
	// Log configures logging
	Log Log `yaml:"log"`
	// Pendulum configures the pendulum scenario
	Pendulum Pendulum `yaml:"pendulum"`
}

// Log configures logging
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Input holds control input Value for the given number of Steps
type Input struct {
	Steps int     `yaml:"steps"`
	Value float64 `yaml:"value"`
}

// Pendulum is a damped pendulum tracked by particle filters of different sizes
type Pendulum struct {
	// Particles lists the particle counts of the compared filters
	Particles []int `yaml:"particles"`
	// DT is the simulation time step
	DT float64 `yaml:"dt"`
	// GL and Damping parametrize the simulated pendulum
	GL      float64 `yaml:"gl"`
	Damping float64 `yaml:"damping"`
	// ModelGL parametrizes the pendulum model used by the filters
	ModelGL float64 `yaml:"model_gl"`
	// Theta0 is the initial pendulum angle
	Theta0 float64 `yaml:"theta0"`
	// Inputs is the control input schedule
	Inputs []Input `yaml:"inputs"`
	// DisturbanceProb is the probability of a random disturbance in a step
	DisturbanceProb float64 `yaml:"disturbance_prob"`
	// DisturbanceMag is the range of disturbances
	DisturbanceMag float64 `yaml:"disturbance_mag"`
	// SensorNoise is the relative error of angle measurements
	SensorNoise float64 `yaml:"sensor_noise"`
	// ActuatorNoise is the relative error of the control input reported to the filters
	ActuatorNoise float64 `yaml:"actuator_noise"`
	// ModelActuatorNoise and ModelProcessNoise are the filter motion model noise deviations
	ModelActuatorNoise float64 `yaml:"model_actuator_noise"`
	ModelProcessNoise  float64 `yaml:"model_process_noise"`
	// SensorEps bounds the measurement score of a perfect match
	SensorEps float64 `yaml:"sensor_eps"`
}

// Default returns the default scenario
func Default() *Config {
	return &Config{
		Seed:    1,
		Workers: 1,
		Output:  "pendulum.png",
		Log:     Log{Level: "info", Format: "text"},
		Pendulum: Pendulum{
			Particles: []int{25, 100, 250},
			DT:        0.1,
			GL:        9.81 / 9.87,
			Damping:   0.2,
			ModelGL:   0.9 * 9.81 / 10,
			Theta0:    2.0,
			Inputs: []Input{
				{Steps: 10, Value: 0.0},
				{Steps: 25, Value: 0.1},
				{Steps: 300, Value: 0.0},
			},
			DisturbanceProb:    0.2,
			DisturbanceMag:     5,
			SensorNoise:        0.05,
			ActuatorNoise:      0.1,
			ModelActuatorNoise: 0.05,
			ModelProcessNoise:  0.2,
			SensorEps:          0.01,
		},
	}
}

// Load reads scenario from YAML file at path.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return c, nil
}

// Steps returns the number of simulation steps of the input schedule
func (p Pendulum) Steps() int {
	var n int
	for _, in := range p.Inputs {
		n += in.Steps
	}
	return n
}

// Input returns the control input at the given step.
// Steps past the schedule get zero input.
func (p Pendulum) Input(step int) float64 {
	for _, in := range p.Inputs {
		if step < in.Steps {
			return in.Value
		}
		step -= in.Steps
	}
	return 0
}

// Validate checks the scenario and returns error if it is invalid
func (c *Config) Validate() error {
	var errs []error

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("invalid workers: %d", c.Workers))
	}

	p := c.Pendulum
	if len(p.Particles) == 0 {
		errs = append(errs, errors.New("no particle counts"))
	}
	for _, n := range p.Particles {
		if n < 1 {
			errs = append(errs, fmt.Errorf("invalid particle count: %d", n))
		}
	}

	if p.DT <= 0 {
		errs = append(errs, fmt.Errorf("invalid time step: %v", p.DT))
	}

	for _, in := range p.Inputs {
		if in.Steps < 0 {
			errs = append(errs, fmt.Errorf("invalid input steps: %d", in.Steps))
		}
	}
	if p.Steps() < 1 {
		errs = append(errs, errors.New("empty input schedule"))
	}

	if p.DisturbanceProb < 0 || p.DisturbanceProb > 1 {
		errs = append(errs, fmt.Errorf("invalid disturbance probability: %v", p.DisturbanceProb))
	}

	if p.SensorNoise < 0 || p.ActuatorNoise < 0 || p.ModelActuatorNoise < 0 || p.ModelProcessNoise < 0 {
		errs = append(errs, errors.New("negative noise deviation"))
	}

	if p.SensorEps <= 0 {
		errs = append(errs, fmt.Errorf("invalid sensor eps: %v", p.SensorEps))
	}

	return errors.Join(errs...)
}
