package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// The persisted layout is a single flat object keyed by logical name plus a
// region field. Adopted identifiers live under their own nested object.
//
//	{"region": "eu-west-2", "vpc": "vpc-0abc", ..., "adopted": {"vpc": "vpc-9"}}
//
// Key order in the document is the creation order.

// MarshalJSON encodes the ledger preserving creation order.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	if err := writeJSONField(&buf, regionKey, l.region, true); err != nil {
		return nil, err
	}
	for _, e := range l.entries {
		if err := writeJSONField(&buf, e.Name, e.ID, false); err != nil {
			return nil, err
		}
	}

	if len(l.adopted) > 0 {
		buf.WriteString(`,"` + adoptedKey + `":{`)
		for i, e := range l.adopted {
			if err := writeJSONField(&buf, e.Name, e.ID, i == 0); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONField(buf *bytes.Buffer, key, value string, first bool) error {
	if !first {
		buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON decodes a ledger, keeping the key order of the document.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	fresh := New("")
	dec := json.NewDecoder(bytes.NewReader(data))

	err := readJSONObject(dec, func(key string) error {
		switch key {
		case adoptedKey:
			return readJSONObject(dec, func(name string) error {
				var id string
				if err := dec.Decode(&id); err != nil {
					return fmt.Errorf("adopted %q: %w", name, err)
				}
				fresh.Adopt(name, id)
				return nil
			})
		case regionKey:
			return dec.Decode(&fresh.region)
		default:
			var id string
			if err := dec.Decode(&id); err != nil {
				return fmt.Errorf("entry %q: %w", key, err)
			}
			fresh.Set(key, id)
			return nil
		}
	})
	if err != nil {
		return err
	}

	l.region, l.entries, l.index, l.adopted = fresh.region, fresh.entries, fresh.index, fresh.adopted
	return nil
}

func readJSONObject(dec *json.Decoder, field func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err = field(key); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the ledger as an ordered mapping node.
func (l *Ledger) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(root, regionKey, l.region)
	for _, e := range l.entries {
		appendPair(root, e.Name, e.ID)
	}

	if len(l.adopted) > 0 {
		adopted := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range l.adopted {
			appendPair(adopted, e.Name, e.ID)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: adoptedKey},
			adopted)
	}
	return root, nil
}

func appendPair(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
}

// UnmarshalYAML decodes an ordered mapping node.
func (l *Ledger) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", value.Line)
	}

	fresh := New("")
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i].Value, value.Content[i+1]
		switch key {
		case regionKey:
			fresh.region = val.Value
		case adoptedKey:
			if val.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: %s must be a mapping", val.Line, adoptedKey)
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				fresh.Adopt(val.Content[j].Value, val.Content[j+1].Value)
			}
		default:
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: entry %q must be a scalar", val.Line, key)
			}
			fresh.Set(key, val.Value)
		}
	}

	l.region, l.entries, l.index, l.adopted = fresh.region, fresh.entries, fresh.index, fresh.adopted
	return nil
}
