package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"db-gate/internal/query"
	"db-gate/internal/record"

	"github.com/spf13/cobra"
)

// fieldFlags collects the typed --set flags shared by insert and update.
type fieldFlags struct {
	text   []string
	ints   []string
	floats []string
	bools  []string
	nulls  []string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.text, "set", nil, "text field, col=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.ints, "set-int", nil, "integer field, col=42 (repeatable)")
	cmd.Flags().StringArrayVar(&f.floats, "set-float", nil, "float field, col=1.5 (repeatable)")
	cmd.Flags().StringArrayVar(&f.bools, "set-bool", nil, "boolean field, col=true (repeatable)")
	cmd.Flags().StringArrayVar(&f.nulls, "set-null", nil, "field set to NULL, col (repeatable)")
}

// fieldSet builds the field set in flag order: text, int, float, bool, null.
func (f *fieldFlags) fieldSet() (record.FieldSet, error) {
	var fs record.FieldSet
	for _, kv := range f.text {
		name, v, err := splitAssign("--set", kv)
		if err != nil {
			return nil, err
		}
		fs = append(fs, record.Field{Name: name, Value: record.Text(v)})
	}
	for _, kv := range f.ints {
		name, v, err := splitAssign("--set-int", kv)
		if err != nil {
			return nil, err
		}
		val, err := parseTyped("int", v)
		if err != nil {
			return nil, fmt.Errorf("--set-int %s: %w", name, err)
		}
		fs = append(fs, record.Field{Name: name, Value: val})
	}
	for _, kv := range f.floats {
		name, v, err := splitAssign("--set-float", kv)
		if err != nil {
			return nil, err
		}
		val, err := parseTyped("float", v)
		if err != nil {
			return nil, fmt.Errorf("--set-float %s: %w", name, err)
		}
		fs = append(fs, record.Field{Name: name, Value: val})
	}
	for _, kv := range f.bools {
		name, v, err := splitAssign("--set-bool", kv)
		if err != nil {
			return nil, err
		}
		val, err := parseTyped("bool", v)
		if err != nil {
			return nil, fmt.Errorf("--set-bool %s: %w", name, err)
		}
		fs = append(fs, record.Field{Name: name, Value: val})
	}
	for _, name := range f.nulls {
		fs = append(fs, record.Field{Name: name, Value: record.Null()})
	}
	return fs, nil
}

// keyFlags is the --key col=value predicate shared by get, update and delete.
type keyFlags struct {
	key     string
	keyType string
}

func (k *keyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&k.key, "key", "k", "", "key predicate, col=value (required)")
	cmd.Flags().StringVar(&k.keyType, "key-type", "text", "type of the key value: text, int, float or bool")
	_ = cmd.MarkFlagRequired("key")
}

func (k *keyFlags) predicate() (query.Key, error) {
	name, v, err := splitAssign("--key", k.key)
	if err != nil {
		return query.Key{}, err
	}
	val, err := parseTyped(k.keyType, v)
	if err != nil {
		return query.Key{}, fmt.Errorf("--key %s: %w", name, err)
	}
	return query.Key{Column: name, Value: val}, nil
}

func splitAssign(flag, kv string) (string, string, error) {
	name, v, ok := strings.Cut(kv, "=")
	if !ok {
		return "", "", fmt.Errorf("%s %q: expected col=value", flag, kv)
	}
	return name, v, nil
}

func parseTyped(kind, v string) (record.Value, error) {
	switch strings.ToLower(kind) {
	case "", "text":
		return record.Text(v), nil
	case "int":
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return record.Value{}, err
		}
		return record.Int(i), nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return record.Value{}, err
		}
		return record.Float(f), nil
	case "bool":
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return record.Value{}, err
		}
		return record.Bool(b), nil
	default:
		return record.Value{}, fmt.Errorf("unknown value type %q", kind)
	}
}
