package main

import (
	"net"
	"strconv"
)

// splitHostPort splits an address into host and port, using defaultPort if no port is specified.
func splitHostPort(addr string, defaultPort int) (string, string, error) {
	ipaddr, port, err := net.SplitHostPort(addr)
	if err != nil {
		addr = addr + ":" + strconv.Itoa(defaultPort)
		ipaddr, port, err = net.SplitHostPort(addr)
		if err != nil {
			return "", "", err
		}
	}
	return ipaddr, port, nil
}

// listenAddress completes addr with the default port.
func listenAddress(addr string) (string, error) {
	host, port, err := splitHostPort(addr, defaultPort)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(host, port), nil
}

// advertisedURL is the URL clients should use to reach a listener.
func advertisedURL(l net.Listener, tls bool) string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	return scheme + "://" + l.Addr().String()
}
