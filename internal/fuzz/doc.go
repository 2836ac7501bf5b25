// Package fuzztests holds fuzz harnesses for the scene pipeline
// (grammar -> canonical tree -> validation). They guard against panics,
// hangs and broken span structure on arbitrary input.
//
// Не делает: генерацию корпусов и запись файлов.
package fuzztests
