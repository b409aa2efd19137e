// Package domain contains the core value types of the interview engine:
// questions, answers, interview state, decisions and sessions.
//
// The package is dependency-free by design. Adapters (HTTP, MCP, Redis)
// and the engine packages all speak in these types.
package domain
