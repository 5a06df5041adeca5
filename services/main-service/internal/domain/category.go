package domain

import "strings"

type Category struct {
	ID   int64
	Name string
}

func NewCategory(name string) (*Category, error) {
	c := &Category{Name: strings.TrimSpace(name)}
	if err := validateText("name", c.Name, 1, 50); err != nil {
		return nil, err
	}
	return c, nil
}
