// Package domain contains the core entities of the application:
// courses, learnable items, per-user progress records, levels, and users.
// Domain types carry their own validation and the small amount of
// behavior (mastery clamping, completion rules) that the services
// build on. They have no dependencies on storage or transport.
package domain
