package utils

import (
	"slices"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

// Contains checks if a slice contains a value.
func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}

// IndexOf returns the position of value in slice, or -1.
func IndexOf(slice []string, value string) int {
	return slices.Index(slice, value)
}
