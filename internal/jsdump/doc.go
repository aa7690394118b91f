/*
Package jsdump evaluates JavaScript entity dumps in a sandboxed VM.

Dumps are ES modules of the form

	export const ROOM_ENTITY_MAP = [ { entity_id: "...", attributes: {...} }, ... ];

The export is rewritten to a global declaration and the file runs in a goja
runtime with require, process, module and exports removed and an execution
timeout. Each element is projected to its entity_id and attributes and
serialised by the VM's own JSON.stringify, so attribute key order is kept.
*/
package jsdump
