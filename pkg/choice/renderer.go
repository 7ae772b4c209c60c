package choice

import (
	"fmt"
	"strconv"
)

// Renderer turns a choice into its label text and its submitted value.
type Renderer[T any] interface {
	DisplayValue(choice T) string
	IDValue(choice T, index int) string
}

// IndexRenderer displays choices with fmt.Sprint and submits their index.
type IndexRenderer[T any] struct{}

// DisplayValue implements Renderer.
func (IndexRenderer[T]) DisplayValue(choice T) string {
	return fmt.Sprint(choice)
}

// IDValue implements Renderer.
func (IndexRenderer[T]) IDValue(_ T, index int) string {
	return strconv.Itoa(index)
}

// FuncRenderer adapts two functions into a Renderer. A nil ID func falls back
// to the index.
type FuncRenderer[T any] struct {
	Display func(choice T) string
	ID      func(choice T, index int) string
}

// DisplayValue implements Renderer.
func (r FuncRenderer[T]) DisplayValue(choice T) string {
	if r.Display == nil {
		return fmt.Sprint(choice)
	}
	return r.Display(choice)
}

// IDValue implements Renderer.
func (r FuncRenderer[T]) IDValue(choice T, index int) string {
	if r.ID == nil {
		return strconv.Itoa(index)
	}
	return r.ID(choice, index)
}
