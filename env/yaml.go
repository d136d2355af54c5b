// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/stampo-dev/stampo/value"
)

// AddFromYAML adds to the environment the symbols defined in the YAML
// source src. The source must be a mapping from symbol names to scalars or
// sequences. Booleans are loaded as the integers 1 and 0.
func (e *Env) AddFromYAML(src []byte) error {
	var symbols map[string]interface{}
	err := yaml.Unmarshal(src, &symbols)
	if err != nil {
		return err
	}
	for name, y := range symbols {
		v, err := yamlValue(y)
		if err != nil {
			return fmt.Errorf("symbol %s: %s", name, err)
		}
		e.Push(name, v)
	}
	return nil
}

// yamlValue converts a value decoded from YAML to a value.Value.
func yamlValue(y interface{}) (value.Value, error) {
	switch y := y.(type) {
	case int:
		return value.Int(y), nil
	case int64:
		return value.Int(y), nil
	case uint64:
		if y > math.MaxInt {
			return nil, fmt.Errorf("constant %d overflows integer", y)
		}
		return value.Int(y), nil
	case float64:
		return value.Float(y), nil
	case string:
		return value.String(y), nil
	case bool:
		if y {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case []interface{}:
		a := make(value.Array, len(y))
		for i, el := range y {
			v, err := yamlValue(el)
			if err != nil {
				return nil, err
			}
			a[i] = v
		}
		return a, nil
	}
	return nil, fmt.Errorf("unsupported YAML value of type %T", y)
}
