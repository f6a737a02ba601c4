// Package io reads and writes Gliffy documents on disk.
//
// [WriteDocument] and [ExportDocument] serialize a stage. [ReadDocument] and
// [ImportDocument] decode an existing .gliffy file into a [Document] summary
// for inspection: the envelope fields and the object tree with ids, orders,
// uids and graphic types. The summary is read-only; it does not rebuild a
// stage.
//
// Text markup is written without HTML escaping, as Gliffy expects.
package io
