package sui

import (
	"encoding/json"
	"strings"
)

// ContentKind tags what an object response holds.
type ContentKind int

const (
	ContentAbsent ContentKind = iota
	ContentMoveObject
	ContentPackage
	ContentUnrecognized
)

func (k ContentKind) String() string {
	switch k {
	case ContentAbsent:
		return "absent"
	case ContentMoveObject:
		return "moveObject"
	case ContentPackage:
		return "package"
	default:
		return "unrecognized"
	}
}

type ObjectResponse struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}

type ObjectData struct {
	ObjectID string          `json:"objectId"`
	Version  string          `json:"version"`
	Digest   string          `json:"digest"`
	Type     string          `json:"type,omitempty"`
	Content  *ContentPayload `json:"content,omitempty"`
}

type ContentPayload struct {
	DataType          string          `json:"dataType"`
	Type              string          `json:"type,omitempty"`
	HasPublicTransfer bool            `json:"hasPublicTransfer,omitempty"`
	Fields            json.RawMessage `json:"fields,omitempty"`
}

// ObjectError is the per-object error the node returns for deleted or
// missing objects, e.g. {"code":"notExists","object_id":"0x…"}.
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

// Content is the decoded view of an object response.
type Content struct {
	Kind     ContentKind
	ObjectID string
	Type     string
	Fields   json.RawMessage
}

// Content classifies the response. Anything that is not a move object with
// fields is reported as absent, package or unrecognized; callers never need
// to inspect the raw payload to find out.
func (r ObjectResponse) Content() Content {
	if r.Error != nil || r.Data == nil || r.Data.Content == nil {
		c := Content{Kind: ContentAbsent}
		if r.Data != nil {
			c.ObjectID = r.Data.ObjectID
		}
		return c
	}

	c := Content{ObjectID: r.Data.ObjectID, Type: r.Data.Content.Type}
	switch r.Data.Content.DataType {
	case "moveObject":
		fields := strings.TrimSpace(string(r.Data.Content.Fields))
		if fields == "" || fields == "null" || !strings.HasPrefix(fields, "{") {
			c.Kind = ContentUnrecognized
			return c
		}
		c.Kind = ContentMoveObject
		c.Fields = r.Data.Content.Fields
	case "package":
		c.Kind = ContentPackage
	default:
		c.Kind = ContentUnrecognized
	}
	return c
}

// DynamicFieldName is the typed key of a dynamic field.
type DynamicFieldName struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Address returns the key as an address when the key type is `address`.
func (n DynamicFieldName) Address() (string, bool) {
	if n.Type != "address" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(n.Value, &s); err != nil {
		return "", false
	}
	return s, true
}

type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	BCSName    string           `json:"bcsName,omitempty"`
	Type       string           `json:"type,omitempty"`
	ObjectType string           `json:"objectType,omitempty"`
	ObjectID   string           `json:"objectId"`
	Version    json.RawMessage  `json:"version,omitempty"`
	Digest     string           `json:"digest,omitempty"`
}

type dynamicFieldPage struct {
	Data        []DynamicFieldInfo `json:"data"`
	NextCursor  *string            `json:"nextCursor"`
	HasNextPage bool               `json:"hasNextPage"`
}
