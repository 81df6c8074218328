// Package authrpc описывает gRPC-контракт сервиса авторизации: сообщения,
// дескриптор сервиса и клиентскую заглушку.
//
// Сообщения передаются в JSON через зарегистрированный кодек "json",
// поэтому контракт не требует генерации кода из .proto.
package authrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName — content-subtype, под которым зарегистрирован кодек (application/grpc+json).
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
