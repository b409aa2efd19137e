/*
Package session implements the Maestro session manager.

It owns the session registry, drives the interview state machine
(analyzing -> interviewing -> awaiting_answer -> deciding -> confirming ->
executing -> complete/aborted), serializes concurrent access per session id,
enforces the idle-expiry policy, and is the only component that calls the
external generation backend.
*/
package session
