// Package terminal reads passwords from the user without echo, preferring
// stdin and falling back to the controlling terminal when stdin is piped.
package terminal
