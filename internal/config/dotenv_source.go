package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DotenvSource reads values from a .env file. The process environment takes
// precedence over the file.
type DotenvSource struct {
	path   string
	values map[string]string
}

func NewDotenvSource(path string) (*DotenvSource, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("dotenv read error (%s): %w", path, err)
	}
	return &DotenvSource{path: path, values: values}, nil
}

func (d *DotenvSource) Name() string {
	return "dotenv"
}

func (d *DotenvSource) Get(key string) (string, error) {
	if val := os.Getenv(key); val != "" {
		return val, nil
	}
	if val := d.values[key]; val != "" {
		return val, nil
	}
	return "", fmt.Errorf("%s not set in environment or %s", key, d.path)
}
