// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package cmd contains the subcommands of the data-catalog executable.
package cmd
