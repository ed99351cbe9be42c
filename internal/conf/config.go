package conf

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// OperatorConfig is a type holding general configuration values.
// Most of the operator code that needs to reference configuration
// should do so via this type.
type OperatorConfig struct {
	ModelName       string `mapstructure:"model-name"`
	AppName         string `mapstructure:"app-name"`
	UnitName        string `mapstructure:"unit-name"`
	ContainerName   string `mapstructure:"container-name"`
	ServiceName     string `mapstructure:"service-name"`
	PebbleSocket    string `mapstructure:"pebble-socket"`
	BindAddress     string `mapstructure:"bind-address"`
	StateConfigMap  string `mapstructure:"state-configmap"`
	FieldManager    string `mapstructure:"field-manager"`
	MetricsTextfile string `mapstructure:"metrics-textfile"`
}

// Validate the OperatorConfig returning an error if the config is not
// directly usable by the operator.
func (oc *OperatorConfig) Validate() error {
	required := map[string]string{
		"model-name":     oc.ModelName,
		"app-name":       oc.AppName,
		"container-name": oc.ContainerName,
		"service-name":   oc.ServiceName,
		"pebble-socket":  oc.PebbleSocket,
		"field-manager":  oc.FieldManager,
	}
	for _, k := range []string{
		"model-name",
		"app-name",
		"container-name",
		"service-name",
		"pebble-socket",
		"field-manager",
	} {
		if required[k] == "" {
			return fmt.Errorf("configuration value %q must be set", k)
		}
	}
	return nil
}

// StateConfigMapName returns the name of the config map holding durable
// unit state. Unless configured it is derived from the unit name.
func (oc *OperatorConfig) StateConfigMapName() string {
	if oc.StateConfigMap != "" {
		return oc.StateConfigMap
	}
	unit := oc.UnitName
	if unit == "" {
		unit = oc.AppName + "/0"
	}
	return strings.ReplaceAll(unit, "/", "-") + "-state"
}

// Source is how external configuration sources populate the operator config.
type Source struct {
	v    *viper.Viper
	fset *pflag.FlagSet
}

// NewSource creates a new Source based on default configuration values.
func NewSource() *Source {
	v := viper.New()
	v.SetDefault("model-name", os.Getenv("JUJU_MODEL_NAME"))
	v.SetDefault("app-name", appFromUnit(os.Getenv("JUJU_UNIT_NAME")))
	v.SetDefault("unit-name", os.Getenv("JUJU_UNIT_NAME"))
	v.SetDefault("container-name", "ueransim")
	v.SetDefault("service-name", "ueransim")
	v.SetDefault("pebble-socket", "/charm/containers/ueransim/pebble.socket")
	v.SetDefault("bind-address", "")
	v.SetDefault("state-configmap", "")
	v.SetDefault("field-manager", "controller")
	v.SetDefault("metrics-textfile", "")
	return &Source{v: v}
}

func appFromUnit(unit string) string {
	if i := strings.Index(unit, "/"); i > 0 {
		return unit[:i]
	}
	return unit
}

// Flags returns a pflag FlagSet populated with flags based on the default
// configuration. If used, flags allow changing configuration values on
// the CLI.
// Once parsed these flags act as a configuration source.
func (s *Source) Flags() *pflag.FlagSet {
	if s.fset != nil {
		return s.fset
	}
	s.fset = pflag.NewFlagSet("conf", pflag.ExitOnError)
	for _, k := range s.v.AllKeys() {
		s.fset.String(k, "",
			fmt.Sprintf("Specify the %q configuration parameter", k))
	}
	return s.fset
}

// Read a new OperatorConfig from all available sources.
func (s *Source) Read() (*OperatorConfig, error) {
	v := s.v

	// we look in /etc/gnb-operator and the working dir for
	// yaml/toml/etc config files (none are required)
	v.AddConfigPath("/etc/gnb-operator")
	v.AddConfigPath(".")
	v.SetConfigName("gnb-operator")
	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// we automatically pull from the environment
	v.SetEnvPrefix("GNB_OP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// use cli flags if available. unset flags must not shadow the
	// defaults, so only changed flags are bound.
	if s.fset != nil {
		s.fset.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = v.BindPFlag(f.Name, f)
			}
		})
	}

	// we isolate config handling to this package. thus we marshal
	// our config to the public OperatorConfig type and return that.
	c := &OperatorConfig{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and validates the operator configuration.
func Load(s *Source) (*OperatorConfig, error) {
	c, err := s.Read()
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
