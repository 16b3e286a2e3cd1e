// Package entities provides the semantic types exchanged between a vessel's
// logic module and the bridge: vectors, typed handles, thruster group types,
// key state snapshots, frame state and class configuration.
// Host-native representations live in package wireformat; conversion between
// the two is done by internal/abi.
package entities
