package terminal

import (
	"fmt"
	"text/tabwriter"

	"github.com/redbg/redbg/pkg/config"
)

func configureCmd(t *Term, args string) error {
	switch args {
	case "-list":
		return configureList(t)
	case "-save":
		return config.SaveConfig(t.conf)
	case "":
		return fmt.Errorf("wrong number of arguments to \"config\"")
	default:
		return configureSet(t, args)
	}
}

func configureList(t *Term) error {
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	return config.ConfigureList(w, t.conf, "yaml")
}

func configureSet(t *Term, args string) error {
	v := config.Split2PartsBySpace(args)

	cfgname := v[0]
	var rest string
	if len(v) == 2 {
		rest = v[1]
	}

	switch cfgname {
	case "alias":
		return configureSetAlias(t, rest)
	case "pattern":
		return configureSetPattern(t, rest)
	}

	field := config.ConfigureFindFieldByName(t.conf, cfgname, "yaml")
	if !field.CanAddr() {
		return fmt.Errorf("%q is not a configuration parameter", cfgname)
	}

	return config.ConfigureSetSimple(rest, cfgname, field)
}

func configureSetPattern(t *Term, rest string) error {
	argv := config.SplitQuotedFields(rest, '"')
	switch len(argv) {
	case 1: // remove a named pattern
		name := argv[0]
		if _, ok := t.conf.Patterns[name]; !ok {
			return fmt.Errorf("could not find pattern %q", name)
		}
		delete(t.conf.Patterns, name)
		t.registry.Remove(name)
	case 2: // add a named pattern
		p, err := t.registry.Add(argv[0], argv[1])
		if err != nil {
			return err
		}
		if t.conf.Patterns == nil {
			t.conf.Patterns = make(map[string]string)
		}
		t.conf.Patterns[p.Name] = p.Expr
	default:
		return fmt.Errorf("too many arguments to \"config pattern\"")
	}
	return nil
}

func configureSetAlias(t *Term, rest string) error {
	argv := config.SplitQuotedFields(rest, '"')
	switch len(argv) {
	case 1: // delete alias rule
		for k := range t.conf.Aliases {
			v := t.conf.Aliases[k]
			for i := range v {
				if v[i] == argv[0] {
					copy(v[i:], v[i+1:])
					t.conf.Aliases[k] = v[:len(v)-1]
				}
			}
		}
	case 2: // add alias rule
		alias, cmd := argv[1], argv[0]
		if t.conf.Aliases == nil {
			t.conf.Aliases = make(map[string][]string)
		}
		t.conf.Aliases[cmd] = append(t.conf.Aliases[cmd], alias)
	}
	t.cmds.Merge(t.conf.Aliases)
	return nil
}
