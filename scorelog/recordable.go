// Package scorelog keeps a history of finished games in SQLite.
package scorelog

import (
	"encoding/json"
	"fmt"
	"time"
)

type Recordable interface {
	// TypeName names the payload's concrete type in the stored envelope. It
	// must stay stable when the Go type moves, so %T is not used.
	TypeName() string

	Ts() time.Time

	SetId(int64) Recordable
}

var decoders = make(map[string]func(data []byte) (Recordable, error))

// Register makes T decodable by Unmarshal.
func Register[T Recordable](t T) {
	decoders[t.TypeName()] = func(data []byte) (Recordable, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

type envelope struct {
	Type    string
	Payload json.RawMessage
}

type envelopeEncode struct {
	Type    string
	Payload any
}

func Marshal[T Recordable](t T) ([]byte, error) {
	return json.Marshal(envelopeEncode{
		Type:    t.TypeName(),
		Payload: t,
	})
}

func Unmarshal(data []byte) (Recordable, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	d := decoders[e.Type]
	if d == nil {
		return nil, fmt.Errorf("unregistered record type: %q", e.Type)
	}
	return d(e.Payload)
}
