package config

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/user"
	"path"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v2"
)

const (
	configDir  string = ".redbg"
	configFile string = "config.yml"
)

// Config defines all configuration options available to be set through the config file.
type Config struct {
	// Aliases are additional aliases for terminal commands.
	Aliases map[string][]string `yaml:"aliases"`
	// Patterns are user defined named patterns, added to the registry of
	// built-in recognizer patterns.
	Patterns map[string]string `yaml:"patterns"`

	// MaxMatchWidth is the maximum width of a matched substring printed by
	// the find and patterns commands before it is truncated.
	MaxMatchWidth *int `yaml:"max-match-width,omitempty"`

	// If ShowGroupIndexes is true the find command prints the numeric index
	// of every capture group next to its value.
	ShowGroupIndexes bool `yaml:"show-group-indexes"`

	// Matched-span color (3/4 bit color codes as defined
	// here: https://en.wikipedia.org/wiki/ANSI_escape_code#Colors)
	MatchColor int `yaml:"match-color"`
}

// LoadConfig attempts to populate a Config object from the config.yml file.
func LoadConfig() *Config {
	err := createConfigPath()
	if err != nil {
		fmt.Printf("Could not create config directory: %v.", err)
		return &Config{}
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		fmt.Printf("Unable to get config file path: %v.", err)
		return &Config{}
	}

	f, err := os.Open(fullConfigFile)
	if err != nil {
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			fmt.Printf("Error creating default config file: %v", err)
			return &Config{}
		}
	}
	defer func() {
		err := f.Close()
		if err != nil {
			fmt.Printf("Closing config file failed: %v.", err)
		}
	}()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		fmt.Printf("Unable to read config data: %v.", err)
		return &Config{}
	}

	var c Config
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		fmt.Printf("Unable to decode config file: %v.", err)
		return &Config{}
	}

	return &c
}

// SaveConfig will marshal and save the config struct
// to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}

	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(out)
	return err
}

func createDefaultConfig(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create config file: %v", err)
	}
	err = writeDefaultConfig(f)
	if err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	return f, nil
}

func writeDefaultConfig(f *os.File) error {
	_, err := f.WriteString(
		`# Configuration file for redbg.

# This is the default configuration file. Available options are provided, but disabled.
# Delete the leading hash mark to enable an item.

# Uncomment the following line and set your preferred ANSI foreground color
# for the highlighted matched span in the find command (if unset, default is
# 33, yellow). See https://en.wikipedia.org/wiki/ANSI_escape_code#3/4_bit
# match-color: 33

# Provided aliases will be added to the default aliases for a given command.
aliases:
  # command: ["alias1", "alias2"]

# Named patterns to add to the registry of built-in recognizer patterns.
# Pattern names can be used instead of inline expressions in the match,
# find and captures commands.
patterns:
  # name: expression

# Maximum width of a matched substring before it is truncated in listings.
# max-match-width: 120

# Uncomment the following line to make the find command print the numeric
# index of every capture group next to its value.
# show-group-indexes: true
`)
	return err
}

// createConfigPath creates the directory structure at which all config files are saved.
func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}

// GetConfigFilePath gets the full path to the given config file name.
func GetConfigFilePath(file string) (string, error) {
	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return path.Join(userHomeDir, configDir, file), nil
}

type configureIterator struct {
	cfgValue reflect.Value
	cfgType  reflect.Type
	tag      string
	i        int
}

func iterateConfiguration(conf interface{}, tag string) *configureIterator {
	cfgValue := reflect.ValueOf(conf).Elem()
	cfgType := cfgValue.Type()

	return &configureIterator{cfgValue, cfgType, tag, -1}
}

func (it *configureIterator) Next() bool {
	it.i++
	return it.i < it.cfgValue.NumField()
}

func (it *configureIterator) Field() (name string, field reflect.Value) {
	name = it.cfgType.Field(it.i).Tag.Get(it.tag)
	if comma := strings.Index(name, ","); comma >= 0 {
		name = name[:comma]
	}
	field = it.cfgValue.Field(it.i)
	return
}

// ConfigureFindFieldByName returns the configuration field of conf tagged
// with name, using the given struct tag key.
func ConfigureFindFieldByName(conf interface{}, name string, tag string) reflect.Value {
	it := iterateConfiguration(conf, tag)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == name {
			return field
		}
	}
	return reflect.ValueOf(nil)
}

// ConfigureList writes every configuration field of config and its current
// value to w, one per line.
func ConfigureList(w io.Writer, config interface{}, tag string) error {
	it := iterateConfiguration(config, tag)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == "" {
			continue
		}
		writeField(w, field, fieldName)
	}
	if tw, ok := w.(*tabwriter.Writer); ok {
		return tw.Flush()
	}
	return nil
}

// ConfigureListByName returns the value of the field of sargs tagged with
// cfgname, formatted as a single "name\tvalue" line. An empty cfgname or an
// unknown field produce an empty string.
func ConfigureListByName(sargs interface{}, cfgname, tag string) string {
	if cfgname == "" {
		return ""
	}
	var buf strings.Builder
	it := iterateConfiguration(sargs, tag)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == cfgname {
			writeField(&buf, field, fieldName)
			break
		}
	}
	return buf.String()
}

func writeField(w io.Writer, field reflect.Value, fieldName string) {
	if field.Kind() == reflect.Ptr {
		if !field.IsNil() {
			fmt.Fprintf(w, "%s\t%v\n", fieldName, field.Elem())
		} else {
			fmt.Fprintf(w, "%s\t<not defined>\n", fieldName)
		}
	} else {
		fmt.Fprintf(w, "%s\t%v\n", fieldName, field)
	}
}

// ConfigureSetSimple updates the configuration field field, whose tagged
// name is cfgname, parsing rest as its new value.
func ConfigureSetSimple(rest string, cfgname string, field reflect.Value) error {
	simpleArg := func(typ reflect.Type) (reflect.Value, error) {
		switch typ.Kind() {
		case reflect.Int:
			n, err := strconv.Atoi(rest)
			if err != nil {
				return reflect.ValueOf(nil), fmt.Errorf("argument to %q must be a number", cfgname)
			}
			if n < 0 {
				return reflect.ValueOf(nil), fmt.Errorf("argument to %q must be a number greater than zero", cfgname)
			}
			return reflect.ValueOf(&n), nil
		case reflect.Bool:
			v := rest == "true"
			return reflect.ValueOf(&v), nil
		case reflect.String:
			return reflect.ValueOf(&rest), nil
		default:
			return reflect.ValueOf(nil), fmt.Errorf("unsupported type for configuration key %q", cfgname)
		}
	}
	if field.Kind() == reflect.Ptr {
		val, err := simpleArg(field.Type().Elem())
		if err != nil {
			return err
		}
		field.Set(val)
	} else {
		val, err := simpleArg(field.Type())
		if err != nil {
			return err
		}
		field.Set(val.Elem())
	}
	return nil
}

// Split2PartsBySpace splits s into a name and the rest of the line.
func Split2PartsBySpace(s string) []string {
	v := strings.SplitN(s, " ", 2)
	for i := range v {
		v[i] = strings.TrimSpace(v[i])
	}
	return v
}
