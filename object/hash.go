package object

import (
	"bytes"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// HashKey identifies a hashable value inside a Hash. Two values produce the
// same key only if they have the same type and the same payload.
type HashKey struct {
	Type  Type
	Value uint64
}

// Hashable is implemented by the value types usable as hash keys: Integer,
// Boolean and String.
type Hashable interface {
	Object
	HashKey() HashKey
}

// HashPair keeps the original key object alongside its value so a Hash can
// be inspected and iterated.
type HashPair struct {
	Key   Object
	Value Object
}

func hashString(s string) uint64 {
	return xxh3.HashString(s)
}

// HashKeyOf returns the HashKey for the given object, or an Error if the
// object's type cannot be used as a hash key.
func HashKeyOf(obj Object) (HashKey, *Error) {
	hashable, ok := obj.(Hashable)
	if !ok {
		return HashKey{}, Errorf("unusable as hash key: %s", obj.Type())
	}
	return hashable.HashKey(), nil
}

// Hash is an unordered mapping of hashable keys to values.
type Hash struct {
	Pairs map[HashKey]HashPair
}

func NewHash(pairs map[HashKey]HashPair) *Hash {
	if pairs == nil {
		pairs = map[HashKey]HashPair{}
	}
	return &Hash{Pairs: pairs}
}

func (h *Hash) Type() Type {
	return HASH
}

// SortedPairs returns the pairs ordered by the inspected form of their keys.
func (h *Hash) SortedPairs() []HashPair {
	pairs := make([]HashPair, 0, len(h.Pairs))
	for _, pair := range h.Pairs {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i].Key, pairs[j].Key
		if a.Type() != b.Type() {
			return a.Type() < b.Type()
		}
		return a.Inspect() < b.Inspect()
	})
	return pairs
}

func (h *Hash) Inspect() string {
	var out bytes.Buffer
	items := make([]string, 0, len(h.Pairs))
	for _, pair := range h.SortedPairs() {
		items = append(items, pair.Key.Inspect()+": "+pair.Value.Inspect())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("}")
	return out.String()
}

// Interface returns a map keyed by the inspected form of each key.
func (h *Hash) Interface() interface{} {
	result := make(map[string]interface{}, len(h.Pairs))
	for _, pair := range h.Pairs {
		result[pair.Key.Inspect()] = pair.Value.Interface()
	}
	return result
}

// Get returns the value stored under key. The second return value is an
// Error if the key is not hashable.
func (h *Hash) Get(key Object) (Object, *Error) {
	hashKey, err := HashKeyOf(key)
	if err != nil {
		return nil, err
	}
	pair, ok := h.Pairs[hashKey]
	if !ok {
		return Null, nil
	}
	return pair.Value, nil
}

// Set stores value under key, replacing any existing entry.
func (h *Hash) Set(key, value Object) *Error {
	hashKey, err := HashKeyOf(key)
	if err != nil {
		return err
	}
	h.Pairs[hashKey] = HashPair{Key: key, Value: value}
	return nil
}
