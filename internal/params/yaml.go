// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads an ordered parameter mapping from a YAML file.
func LoadFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file %s: %w", path, err)
	}
	p, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parameter file %s: %w", path, err)
	}
	return p, nil
}

// ParseYAML decodes a top-level YAML mapping into Params, keeping document order.
// Scalars are decoded to their natural Go types (int, float64, bool, string).
// Keys and values must be scalars; sequences and nested mappings are rejected.
func ParseYAML(data []byte) (Params, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return Params{}, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of parameter names to values", doc.Line)
	}

	out := make(Params, 0, len(doc.Content)/2)
	for i := 0; i < len(doc.Content)-1; i += 2 {
		keyNode := doc.Content[i]
		valueNode := doc.Content[i+1]

		if scalar(keyNode) == nil {
			return nil, fmt.Errorf("line %d: parameter name must be a scalar", keyNode.Line)
		}
		if scalar(valueNode) == nil {
			return nil, fmt.Errorf("line %d: value of %q must be a scalar", valueNode.Line, keyNode.Value)
		}

		var value any
		if err := valueNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", valueNode.Line, err)
		}
		if _, dup := out.Get(keyNode.Value); dup {
			return nil, fmt.Errorf("line %d: duplicate parameter %q", keyNode.Line, keyNode.Value)
		}
		out = append(out, Param{Key: keyNode.Value, Value: value})
	}
	return out, nil
}

// scalar returns the scalar node n stands for, following aliases, or nil.
func scalar(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n == nil || n.Kind != yaml.ScalarNode {
		return nil
	}
	return n
}
