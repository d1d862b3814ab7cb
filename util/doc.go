// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package util opens GPD inputs and outputs.  The compression codec is chosen
// from the path suffix, and "-" names the standard streams.
package util
