package rpc

const (
	defaultBindAddress = "localhost"
	defaultPort        = "26658"
)
