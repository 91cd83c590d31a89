// Package bookingpb declares the bookings.v1.BookingService wire contract.
// Messages are plain structs carried by a JSON codec, so no protoc step is
// needed to build the service.
package bookingpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype clients must request
// ("application/grpc+json").
const CodecName = "json"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (codec) Name() string                       { return CodecName }

func init() { encoding.RegisterCodec(codec{}) }
