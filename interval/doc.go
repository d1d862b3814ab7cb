// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package interval implements the coordinate arithmetic shared by reads and
  reference transcripts: 0-based half-open ranges on a named chromosome, their
  overlaps, and conversion to and from samtools-style region strings.
  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
