// Package response содержит типы JSON-ответов HTTP-обработчиков: сообщение
// об успехе и тело ошибки {path, timestamp, message[, validationErrors]}.
package response

import (
	"bytes"
	"encoding/json"
)

// Message ответ с локализованным сообщением.
type Message struct {
	Message string `json:"message" example:"User created"`
}

// FieldMessage локализованное сообщение об ошибке поля.
type FieldMessage struct {
	Field   string
	Message string
}

// FieldMessages ошибки полей. Сериализуется в JSON-объект с сохранением порядка.
type FieldMessages []FieldMessage

// MarshalJSON записывает поля в порядке следования.
func (f FieldMessages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fm := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fm.Field)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fm.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Error тело ответа с ошибкой.
type Error struct {
	Path             string        `json:"path" example:"/api/v1/users"`
	Timestamp        int64         `json:"timestamp" example:"1700000000000"`
	Message          string        `json:"message" example:"Validation Failure"`
	ValidationErrors FieldMessages `json:"validationErrors,omitempty" swaggertype:"object,string"`
}
