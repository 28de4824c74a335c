/*
Package ports defines the interfaces between the emberflow core and
its adapters (storage, target runtime, clock). The engine depends only
on these contracts; concrete implementations live under pkg/adapters.
*/
package ports
