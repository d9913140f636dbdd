package requestdata

import (
  "context"
  "github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}

// RequestData carries the verified principal for the current request. UserID
// is uuid.Nil for anonymous callers, which may only reach unowned projects.
type RequestData struct {
  TokenString   string
  UserID        uuid.UUID
  IsAdmin       bool
}
