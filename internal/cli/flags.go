package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName           = "bool"
	toggleFlagTrueLiteral        = "true"
	toggleFlagAcceptedValues     = "true, false, yes, no, on, off, 1, 0"
	toggleFlagInvalidValueFormat = "invalid boolean value %q for --%s; accepted values: %s"

	depthFlagTypeName           = "depth"
	depthFlagUnlimitedLiteral   = "unlimited"
	depthFlagInvalidValueFormat = "invalid depth %q; use a non-negative integer or %q"
)

var toggleFlagLiterals = map[string]bool{
	"true":  true,
	"1":     true,
	"yes":   true,
	"on":    true,
	"false": false,
	"0":     false,
	"no":    false,
	"off":   false,
}

// toggleFlagValue is a boolean flag that also accepts yes/no and on/off literals.
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleFlagTrueLiteral
	}
	parsed, ok := toggleFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf(toggleFlagInvalidValueFormat, input, value.flagName, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlagValue{target: target, flagName: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// depthFlagValue holds a depth limit where nil means every level is rendered.
type depthFlagValue struct {
	limit *int
}

func (value *depthFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == depthFlagUnlimitedLiteral {
		value.limit = nil
		return nil
	}
	parsed, parseError := strconv.Atoi(normalized)
	if parseError != nil || parsed < 0 {
		return fmt.Errorf(depthFlagInvalidValueFormat, input, depthFlagUnlimitedLiteral)
	}
	value.limit = &parsed
	return nil
}

func (value *depthFlagValue) String() string {
	if value == nil || value.limit == nil {
		return depthFlagUnlimitedLiteral
	}
	return strconv.Itoa(*value.limit)
}

func (value *depthFlagValue) Type() string {
	return depthFlagTypeName
}

// normalizeToggleArguments rewrites "--flag value" into "--flag=value" for toggle flags
// followed by a boolean literal, so the literal is not taken as a positional path.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleFlags := map[string]struct{}{}
	collectToggleFlagNames(command, toggleFlags)
	if len(toggleFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, "--") && !strings.Contains(currentArgument, "=") && index+1 < len(arguments) {
			flagName := strings.TrimPrefix(currentArgument, "--")
			nextArgument := arguments[index+1]
			if _, isToggle := toggleFlags[flagName]; isToggle {
				if _, isLiteral := toggleFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; isLiteral {
					normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, nextArgument))
					index++
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value.Type() == toggleFlagTypeName {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
