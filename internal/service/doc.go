// Package service contains the application-specific use cases. It
// orchestrates interactions between domain objects and the stores
// defined in internal/store: task lifecycle management with its
// read-through cache, and work-log recording as a side effect of
// task changes.
package service
