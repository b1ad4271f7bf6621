package utils

import "context"

type contextKey string

const (
	CustomerIDKey contextKey = "customerID"
)

// SetCustomerContext sets customer info into context (called by middleware)
func SetCustomerContext(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, CustomerIDKey, id)
}

// GetCustomerIDFromContext retrieves the customer id safely
func GetCustomerIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(CustomerIDKey).(uint)
	return id, ok
}
