// Package ports defines the interfaces between the interview core and its
// adapters: session persistence, question bank loading, distributed locking
// and the external generation backend.
package ports
