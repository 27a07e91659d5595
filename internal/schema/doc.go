// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package schema declares the request payloads accepted by the catalog API
// together with their validation rules. Payloads are decoded strictly:
// unknown fields are rejected, defaults are applied and the registered
// validation tags are enforced before a payload reaches an entity service.
package schema
