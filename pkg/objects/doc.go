// Package objects manages Anytype objects (pages, notes, tasks and other
// typed records) within a single space. Delete archives the object on the
// server side; repeated deletes issue identical requests.
package objects
