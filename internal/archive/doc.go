// Package archive builds and restores whole-system backups.
//
// A backup is a single gzip-compressed tar stream named
// anchore-backup-<timestamp>.tar.gz. It holds the data directory and, when
// they live outside it, the image store and the config directory. Entry
// names are the absolute source paths with the leading separator removed,
// so restoring into "/" puts every tree back where it came from and
// restoring into any other root relocates the whole captured tree under it.
//
// There is no manifest, version marker or checksum in the archive.
//
// Restore extracts every entry. A failure partway through leaves whatever
// was already written in place; nothing is rolled back.
//
// No locking is done. Two backups, or a backup racing a restore or a script
// sync on the same data directory, can produce an inconsistent archive.
package archive
