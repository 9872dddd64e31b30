package cache

import (
	"fmt"
	"strings"
)

type EntityType string

const (
	EntityPaymentMethods        EntityType = "payment_methods"
	EntityPaymentMethodsVersion EntityType = "payment_methods_version"
	EntityPayment               EntityType = "payment"
)

type KeyType string

const (
	KeyUser        KeyType = "user"
	KeyVersion     KeyType = "version"
	KeyIdempotency KeyType = "idempotency"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// GenerateScopedKey nests a key under its owner, e.g.
// payment:user:42:idempotency:abc.
func GenerateScopedKey(entity EntityType, ownerID string, keyType KeyType, value interface{}) string {
	return strings.Join([]string{
		GenerateKey(entity, KeyUser, ownerID),
		fmt.Sprintf("%s:%v", keyType, value),
	}, ":")
}
