package flags

const Verbose = `v`
const Quiet = `q`
const Plain = `p`
const Help = `h`
const TreeIncludingCollapsed = `all`
const EditWithAutoSave = `autosave`
const EditAutoSaveDelay = `delay`
const EditMetricsAddress = `metrics`
const EditNewDocument = `new`
