package extract

import (
	"path/filepath"
	"strings"
)

// Media and other non-text formats are described rather than read.
var descriptorKinds = map[string]string{
	// images
	".png": "image", ".jpg": "image", ".jpeg": "image", ".gif": "image", ".webp": "image",
	".bmp": "image", ".ico": "image", ".tif": "image", ".tiff": "image", ".heic": "image",
	".heif": "image", ".psd": "image", ".raw": "image", ".eps": "image",
	// video
	".mp4": "video", ".m4v": "video", ".mov": "video", ".mkv": "video", ".webm": "video",
	".avi": "video", ".flv": "video", ".wmv": "video",
	// audio
	".mp3": "audio", ".wav": "audio", ".ogg": "audio", ".flac": "audio", ".m4a": "audio",
	".aac": "audio", ".wma": "audio",
	// model weights
	".pt": "model", ".pth": "model", ".h5": "model", ".onnx": "model", ".ckpt": "model",
	".safetensors": "model", ".pb": "model", ".tflite": "model", ".gguf": "model",
	// archives
	".zip": "archive", ".rar": "archive", ".7z": "archive", ".tar": "archive", ".gz": "archive",
	".tgz": "archive", ".bz2": "archive", ".xz": "archive", ".jar": "archive",
	// fonts
	".ttf": "font", ".otf": "font", ".woff": "font", ".woff2": "font", ".eot": "font",
	// 3d assets
	".obj": "3d", ".fbx": "3d", ".stl": "3d", ".blend": "3d", ".glb": "3d", ".gltf": "3d",
	// executables and libraries
	".exe": "binary", ".dll": "binary", ".so": "binary", ".dylib": "binary", ".bin": "binary",
	".class": "binary", ".pyc": "binary", ".o": "binary", ".a": "binary", ".wasm": "binary",
	// data blobs
	".parquet": "data", ".sqlite": "data", ".db": "data", ".npy": "data", ".npz": "data",
	".pkl": "data",
}

// Document formats whose text needs a dedicated parser.
var documentExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
}

// DescriptorKind returns the descriptor label for ext ("" when the file
// should be read as text).
func DescriptorKind(ext string) string {
	return descriptorKinds[strings.ToLower(ext)]
}

// IsDocument reports whether ext names a document format.
func IsDocument(ext string) bool {
	return documentExts[strings.ToLower(ext)]
}

func extOf(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
