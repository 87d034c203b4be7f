package ledger

import "encoding/json"

// Types mirror the subset of the Sui fullnode JSON-RPC read API this
// service consumes: object reads and dynamic-field (table) enumeration.

type ObjectResponse struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}

type ObjectData struct {
	ObjectID string         `json:"objectId"`
	Version  string         `json:"version"`
	Digest   string         `json:"digest"`
	Content  *ObjectContent `json:"content,omitempty"`
}

type ObjectContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields"`
}

type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

// DynamicFieldName addresses one entry of an on-chain table. For the score
// table the type is "address" and the value is the account address string.
type DynamicFieldName struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	Type       string           `json:"type"`
	ObjectType string           `json:"objectType"`
	ObjectID   string           `json:"objectId"`
}

type DynamicFieldPage struct {
	Data        []DynamicFieldInfo `json:"data"`
	NextCursor  *string            `json:"nextCursor"`
	HasNextPage bool               `json:"hasNextPage"`
}
