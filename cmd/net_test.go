package main

import (
	"net"
	"testing"
)

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		addr string
		host string
		port string
	}{
		{"127.0.0.1:9000", "127.0.0.1", "9000"},
		{"127.0.0.1", "127.0.0.1", "8080"},
		{"localhost", "localhost", "8080"},
		{":9000", "", "9000"},
		{"[::1]:9000", "::1", "9000"},
	}
	for _, tt := range tests {
		host, port, err := splitHostPort(tt.addr, defaultPort)
		if err != nil {
			t.Fatal(err)
		}
		if host != tt.host || port != tt.port {
			t.Fatalf("expected %s %s, actual %s %s", tt.host, tt.port, host, port)
		}
	}
}

func TestListenAddress(t *testing.T) {
	actual, err := listenAddress("0.0.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if actual != "0.0.0.0:8080" {
		t.Fatalf("expected %s, actual %s", "0.0.0.0:8080", actual)
	}
}

func TestAdvertisedURL(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	expected := "https://" + l.Addr().String()
	if actual := advertisedURL(l, true); actual != expected {
		t.Fatalf("expected %s, actual %s", expected, actual)
	}
}
