/*
Package ports defines the interfaces (ports) that decouple the Espalier core
from its adapters, following Hexagonal Architecture.

Driven ports (implemented by adapters): SnapshotStore, DistributedLocker.
Strategy ports (implemented by domains or the resolve package): Resolver.
*/
package ports
