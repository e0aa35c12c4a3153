package repositories

import (
	"encoding/json"
	"fmt"
)

const (
	// Key prefixes for the record kinds kept in badger
	CacheKeyPrefix   = "cache:"
	SessionKeyPrefix = "session:"
	PrefKeyPrefix    = "pref:"
)

func cacheKey(key string) []byte {
	return []byte(CacheKeyPrefix + key)
}

func sessionKey(id string) []byte {
	return []byte(SessionKeyPrefix + id)
}

func prefKey(visitorID, name string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", PrefKeyPrefix, visitorID, name))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
