// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"github.com/iwvelando/vehicle-loan/pkg/validation"
	"github.com/spf13/viper"
)

// ErrDuplicateLoan is returned when two configured loans resolve to the same id.
var ErrDuplicateLoan = errors.New("duplicate loan")

// Configuration holds all configuration for vehicle-loan.
type Configuration struct {
	Logging            LoggingConfig `yaml:"logging,omitempty"`
	Output             OutputConfig  `yaml:"output,omitempty"`
	Store              StoreConfig   `yaml:"store,omitempty"`
	ExtraPaymentPolicy string        `yaml:"extraPaymentPolicy,omitempty"` // first, sum
	Now                string        `yaml:"now,omitempty"`                // optional fixed evaluation date
	Loans              []Loan        `yaml:"loans"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// StoreConfig points at the SQLite database loans are synced into. An empty
// path keeps everything in memory.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// CollisionPolicy returns the configured same-month extra payment policy.
func (conf *Configuration) CollisionPolicy() (loans.CollisionPolicy, error) {
	return loans.ParseCollisionPolicy(conf.ExtraPaymentPolicy)
}

// EvaluationTime returns the configured fixed "now" if present, otherwise the
// clock's current time.
func (conf *Configuration) EvaluationTime(clock datetime.Clock) (time.Time, error) {
	if conf.Now == "" {
		if clock == nil {
			clock = datetime.SystemClock{}
		}
		return clock.Now(), nil
	}
	now, err := datetime.ParseDate(conf.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid evaluation date: %w", err)
	}
	return now, nil
}

// BuildLoans converts every configured loan into an amortizable loan. Loans
// without an explicit id get one derived from their name, or from their
// position when unnamed, so repeated runs address the same stored record.
// Two loans resolving to the same id are rejected with ErrDuplicateLoan.
func (conf *Configuration) BuildLoans() ([]loans.Loan, error) {
	result := make([]loans.Loan, 0, len(conf.Loans))
	seen := make(map[uuid.UUID]int, len(conf.Loans))
	for i, loan := range conf.Loans {
		if loan.ID == "" {
			loan.ID = derivedLoanID(i, loan.Name).String()
		}
		built, err := loan.ToLoan()
		if err != nil {
			return nil, fmt.Errorf("loan %d (%s): %w", i+1, loan.Name, err)
		}
		if first, ok := seen[built.ID]; ok {
			return nil, fmt.Errorf("loan %d (%s): %w: id %s is already used by loan %d",
				i+1, loan.Name, ErrDuplicateLoan, built.ID, first+1)
		}
		seen[built.ID] = i
		result = append(result, built)
	}
	return result, nil
}

func derivedLoanID(index int, name string) uuid.UUID {
	seed := "vehicle-loan/" + name
	if name == "" {
		seed = fmt.Sprintf("vehicle-loan/#%d", index+1)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.Loans) == 0 {
		warnings = append(warnings, "No loans configured")
	}

	policy, err := conf.CollisionPolicy()
	if err != nil {
		warnings = append(warnings, err.Error()+"; falling back to first")
	}

	names := make(map[string]bool, len(conf.Loans))
	for _, loan := range conf.Loans {
		if loan.Name != "" && names[loan.Name] {
			warnings = append(warnings, fmt.Sprintf("Loan name '%s' is used more than once", loan.Name))
		}
		names[loan.Name] = true

		built, err := loan.ToLoan()
		if err != nil {
			continue
		}
		warnings = append(warnings, validation.LoanWarnings(built, policy)...)
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
