// SPDX-License-Identifier: MPL-2.0

// Package provision creates the isolated dependency context an environment's
// commands run in. The heavy lifting (interpreter discovery, virtual
// environment creation, dependency installation) is delegated to the
// pre-existing interpreter toolchain; this package only orchestrates it.
package provision
