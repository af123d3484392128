/*
 * doc.go, part of gopocket.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package pocket is the main package of gopocket. It reads and writes the files
produced by the pocket-detection programs fpocket and mdpocket, and
post-processes them.


	**gopocket Capabilities**


    Reads coordinates from the fixed-column records of PDB files, and writes
	sampled points back as pocket files that can be read again.

    Groups points into pockets by single linkage under a distance threshold.

    Reads OpenDX density grids and extracts the nodes above an isovalue.

    Reads the alpha spheres in fpocket's PQR files.

    Reads mdpocket's per-snapshot descriptor tables, with simple statistics
	for each descriptor.

    Reads and writes zstd- or gzip-compressed versions of all of the above.

The functions in this package don't open files unless their name ends in "File",
and none of them logs. Running fpocket and mdpocket is done by the fpocket
package, plots by pocketplot and PyMOL/VMD scripts by viz.

Errors in gopocket implement the Error interface. A malformed line gives a
*ParseError, a row or block with the wrong number of elements a *SchemaError,
and an input with nothing to read an *EmptyInputError. The latter is not critical:
a search that found no pockets is not necessarily a failure.
*/
package pocket
