/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package diag supplies human-facing descriptions of providers and
// implementations for provctl and logging, built around a
// Named/Identified/Described interface trio: Named's cheap, stable
// type-level name becomes a provider/algorithm name, Identified's
// per-instance id becomes a uuid-tagged provider instance, and Described's
// category/version metadata carries the fixed category "provider" and the
// provider priority.
package diag

import (
	"fmt"

	"github.com/google/uuid"

	"dirpx.dev/provctx/apis"
)

// Named is implemented by anything that knows its own display name.
type Named interface {
	Name() string
}

// Identified extends Named with a per-instance identifier. InstanceID is
// assigned once, at registration time, and never changes for the life of
// the process.
type Identified interface {
	Named
	InstanceID() string
}

// Described extends Identified with category/version metadata.
type Described interface {
	Identified
	Category() string
	Version() string
}

// ProviderInfo is a Described snapshot of one registered apis.Provider,
// computed once at registration time so diagnostics never call back into
// the provider's own (potentially slow) accessors on a hot path.
type ProviderInfo struct {
	name       string
	instanceID string
	priority   int
}

var _ Described = ProviderInfo{}

// Describe captures a stable diagnostic snapshot of p, minting a fresh
// instance id for this registration.
func Describe(p apis.Provider) ProviderInfo {
	return ProviderInfo{
		name:       p.Name(),
		instanceID: uuid.NewString(),
		priority:   p.Priority(),
	}
}

func (pi ProviderInfo) Name() string       { return pi.name }
func (pi ProviderInfo) InstanceID() string { return pi.instanceID }
func (pi ProviderInfo) Category() string   { return "provider" }
func (pi ProviderInfo) Version() string    { return fmt.Sprintf("priority=%d", pi.priority) }

// String renders a one-line diagnostic summary of the provider.
func (pi ProviderInfo) String() string {
	return fmt.Sprintf("%s (%s) [%s]", pi.name, pi.instanceID, pi.Version())
}

// AlgorithmInfo describes one (provider, algorithm) pair surfaced by
// DoAll-style enumeration, the Go analogue of apps/list.c's per-algorithm
// listing line.
type AlgorithmInfo struct {
	Operation  apis.OperationID
	Name       string
	Provider   string
	PropertyDefinition string
}

func operationName(op apis.OperationID) string {
	switch op {
	case apis.OpDigest:
		return "digest"
	case apis.OpCipher:
		return "cipher"
	case apis.OpKeyMgmt:
		return "keymgmt"
	case apis.OpKeyExch:
		return "keyexch"
	default:
		return fmt.Sprintf("op(%d)", op)
	}
}

// String renders a one-line diagnostic summary for provctl's list output.
func (ai AlgorithmInfo) String() string {
	return fmt.Sprintf("%-8s %-16s provider=%s properties=%q", operationName(ai.Operation), ai.Name, ai.Provider, ai.PropertyDefinition)
}
