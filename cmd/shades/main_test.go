package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenPort(t *testing.T) {
	assert.Equal(t, 80, listenPort(":80"))
	assert.Equal(t, 8080, listenPort("0.0.0.0:8080"))
	assert.Equal(t, 80, listenPort("bad"))
}
