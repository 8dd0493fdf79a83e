package common

import "fmt"

type Map[K comparable, V any] map[K]V

func NewMap[K comparable, V any]() Map[K, V] {
	return make(Map[K, V])
}

func (m Map[K, V]) Add(k K, v V) {
	m[k] = v
}

func (m Map[K, V]) Contains(k K) bool {
	_, ok := m[k]
	return ok
}

func (m Map[K, V]) AddStrict(k K, v V) error {
	if m.Contains(k) {
		return fmt.Errorf("key %v already exists", k)
	}
	m.Add(k, v)
	return nil
}
