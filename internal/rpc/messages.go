package rpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	keyIdentifier       = "identifier"
	keySecret           = "secret"
	keyUserID           = "user_id"
	keyAccessToken      = "access_token"
	keyRefreshToken     = "refresh_token"
	keyCollection       = "collection"
	keyID               = "id"
	keyFields           = "fields"
	keyServerTimestamps = "server_timestamps"
	keyExists           = "exists"
	keyStatus           = "status"
)

// StatusOK is the Ping status of a healthy backend.
const StatusOK = "OK"

// Credentials is the SignIn / CreateAccount request.
type Credentials struct {
	Identifier string
	Secret     string
}

func (c Credentials) Proto() *structpb.Struct {
	return stringStruct(map[string]string{keyIdentifier: c.Identifier, keySecret: c.Secret})
}

func CredentialsFromProto(s *structpb.Struct) Credentials {
	return Credentials{Identifier: stringField(s, keyIdentifier), Secret: stringField(s, keySecret)}
}

// Session is returned by SignIn, CreateAccount and RefreshToken.
type Session struct {
	UserID       string
	Identifier   string
	AccessToken  string
	RefreshToken string
}

func (s Session) Proto() *structpb.Struct {
	return stringStruct(map[string]string{
		keyUserID:       s.UserID,
		keyIdentifier:   s.Identifier,
		keyAccessToken:  s.AccessToken,
		keyRefreshToken: s.RefreshToken,
	})
}

func SessionFromProto(s *structpb.Struct) Session {
	return Session{
		UserID:       stringField(s, keyUserID),
		Identifier:   stringField(s, keyIdentifier),
		AccessToken:  stringField(s, keyAccessToken),
		RefreshToken: stringField(s, keyRefreshToken),
	}
}

// TokenRequest carries a refresh token (RefreshToken, SignOut).
type TokenRequest struct {
	RefreshToken string
}

func (t TokenRequest) Proto() *structpb.Struct {
	return stringStruct(map[string]string{keyRefreshToken: t.RefreshToken})
}

func TokenRequestFromProto(s *structpb.Struct) TokenRequest {
	return TokenRequest{RefreshToken: stringField(s, keyRefreshToken)}
}

// DocumentRef addresses one document.
type DocumentRef struct {
	Collection string
	ID         string
}

func (r DocumentRef) Proto() *structpb.Struct {
	return stringStruct(map[string]string{keyCollection: r.Collection, keyID: r.ID})
}

func DocumentRefFromProto(s *structpb.Struct) DocumentRef {
	return DocumentRef{Collection: stringField(s, keyCollection), ID: stringField(s, keyID)}
}

// SetDocumentRequest replaces a document. Fields named in ServerTimestamps
// are filled in by the backend with its current time.
type SetDocumentRequest struct {
	Ref              DocumentRef
	Fields           map[string]any
	ServerTimestamps []string
}

func (r SetDocumentRequest) Proto() (*structpb.Struct, error) {
	fields, err := structpb.NewStruct(r.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode document fields: %w", err)
	}
	stamps := make([]*structpb.Value, 0, len(r.ServerTimestamps))
	for _, name := range r.ServerTimestamps {
		stamps = append(stamps, structpb.NewStringValue(name))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyCollection:       structpb.NewStringValue(r.Ref.Collection),
		keyID:               structpb.NewStringValue(r.Ref.ID),
		keyFields:           structpb.NewStructValue(fields),
		keyServerTimestamps: structpb.NewListValue(&structpb.ListValue{Values: stamps}),
	}}, nil
}

func SetDocumentRequestFromProto(s *structpb.Struct) SetDocumentRequest {
	req := SetDocumentRequest{Ref: DocumentRefFromProto(s), Fields: map[string]any{}}
	if v, ok := s.GetFields()[keyFields]; ok && v.GetStructValue() != nil {
		req.Fields = v.GetStructValue().AsMap()
	}
	if v, ok := s.GetFields()[keyServerTimestamps]; ok {
		for _, item := range v.GetListValue().GetValues() {
			req.ServerTimestamps = append(req.ServerTimestamps, item.GetStringValue())
		}
	}
	return req
}

// Document is the GetDocument response. Fields is nil when Exists is false.
type Document struct {
	Exists bool
	Fields map[string]any
}

func (d Document) Proto() (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		keyExists: structpb.NewBoolValue(d.Exists),
	}}
	if !d.Exists {
		return out, nil
	}
	fields, err := structpb.NewStruct(d.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode document fields: %w", err)
	}
	out.Fields[keyFields] = structpb.NewStructValue(fields)
	return out, nil
}

func DocumentFromProto(s *structpb.Struct) Document {
	if !s.GetFields()[keyExists].GetBoolValue() {
		return Document{}
	}
	doc := Document{Exists: true, Fields: map[string]any{}}
	if v := s.GetFields()[keyFields].GetStructValue(); v != nil {
		doc.Fields = v.AsMap()
	}
	return doc
}

// PingResponse reports backend health.
type PingResponse struct {
	Status string
}

func (p PingResponse) Proto() *structpb.Struct {
	return stringStruct(map[string]string{keyStatus: p.Status})
}

func PingResponseFromProto(s *structpb.Struct) PingResponse {
	return PingResponse{Status: stringField(s, keyStatus)}
}

func stringStruct(m map[string]string) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(m))
	for k, v := range m {
		fields[k] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: fields}
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
