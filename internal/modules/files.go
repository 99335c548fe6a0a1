package modules

import "officegw/internal/domain"

// NewFiles exposes the user's drive: browse, search, download, upload,
// delete, and sharing links.
func NewFiles(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:          "files",
		DisplayName: "Files",
		Requires:    []string{"graph"},
		Capabilities: []string{
			"listFiles", "getFile", "searchFiles", "downloadFile",
			"uploadFile", "deleteFile", "shareFile",
		},
		Handlers: map[string]domain.HandlerFunc{
			"listFiles":    handler(deps, "files", "listFiles", "list", normalizeFileList),
			"getFile":      handler(deps, "files", "getFile", "get", normalizeFile),
			"searchFiles":  handler(deps, "files", "searchFiles", "search", normalizeFileList),
			"downloadFile": handler(deps, "files", "downloadFile", "download", nil),
			"uploadFile":   handler(deps, "files", "uploadFile", "upload", normalizeFile),
			"deleteFile":   handler(deps, "files", "deleteFile", "delete", nil),
			"shareFile":    handler(deps, "files", "shareFile", "share", normalizeShareLink),
		},
	}
}

func normalizeFileList(resp map[string]any) any {
	files := []map[string]any{}
	for _, item := range items(resp) {
		files = append(files, fileShape(asMap(item)))
	}
	return map[string]any{"files": files, "count": len(files)}
}

func normalizeFile(resp map[string]any) any {
	return fileShape(resp)
}

func fileShape(m map[string]any) map[string]any {
	kind := "file"
	if field(m, "folder") != nil {
		kind = "folder"
	}
	return map[string]any{
		"id":         strField(m, "id"),
		"name":       strField(m, "name"),
		"kind":       kind,
		"size":       field(m, "size"),
		"modifiedAt": strField(m, "lastModifiedDateTime"),
		"webUrl":     strField(m, "webUrl"),
		"mimeType":   strField(asMap(field(m, "file")), "mimeType"),
	}
}

func normalizeShareLink(resp map[string]any) any {
	link := asMap(field(resp, "link"))
	return map[string]any{
		"url":   strField(link, "webUrl"),
		"type":  strField(link, "type"),
		"scope": strField(link, "scope"),
	}
}
