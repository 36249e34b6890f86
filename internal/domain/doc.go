// Package domain contains the core business entities and validation logic
// of the application: users, tasks, categories, and auth tokens. It is
// independent of any specific storage or delivery mechanism.
package domain
