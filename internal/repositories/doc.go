// Package repositories provides persistence layer implementations for all model types.
//
// [CredentialRepository] implements [models.Repository] for [models.Credential] on SQLite.
// [TokenStoreAdapter] narrows it to the single access-token slot the session layer needs:
// the token lives under [shared.AccessTokenKey] and is restored at startup.
package repositories
