// Package codec provides the CBOR codec used to persist nodes and leaf
// payloads. Encoding is canonical so that identical nodes always serialize to
// identical bytes; decoding rejects duplicate map keys.
package codec

import (
	"github.com/fxamacker/cbor/v2"
)

type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec returns a codec with the package's fixed encode and decode
// options.
func NewCBORCodec() (CBORCodec, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return CBORCodec{}, err
	}
	dec, err := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		return CBORCodec{}, err
	}
	return CBORCodec{enc: enc, dec: dec}, nil
}

func (c CBORCodec) MarshalCBOR(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c CBORCodec) UnmarshalCBOR(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
