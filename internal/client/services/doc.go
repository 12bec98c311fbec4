// Package services contains the application services of the Sumdays client.
//
// JournalService performs user-level mutations on the local store. Every
// mutation goes through the dirty-tracked repositories, so it is picked up by
// the next backup. AuthService starts and ends sessions, and SyncService
// drives the background workers.
package services
