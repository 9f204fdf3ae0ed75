// Package models defines domain entities and persistence interfaces for setlist.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): provider-neutral structs the CLI and HTTP API render
//   - [Playlist] : playlist metadata
//   - [PlaylistDetail] : playlist with its track listing
//   - [Track] : song metadata including the provider URI used for playlist edits
//   - [ChartEntry] : one row of the external chart feed
//
// 2. Persistent Entities: database-backed models
//   - [Credential] : a key/value session secret such as the user access token
//
// Persistent entities implement [Model]; [Repository] defines the CRUD surface for them.
package models
