package texture

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// DiskFile is the accretion disk texture file name inside a texture directory
const DiskFile = "accretion_disc.png"

// FaceFiles maps each skybox face to its file name inside a texture directory
var FaceFiles = [FaceCount]string{
	Front:  "skyboxfront.png",
	Back:   "skyboxback.png",
	Left:   "skyboxleft.png",
	Right:  "skyboxright.png",
	Top:    "skyboxtop.png",
	Bottom: "skyboxbottom.png",
}

// Set is the complete collection of textures a render needs
type Set struct {
	Disk   *Texture
	Skybox *Skybox
}

// Load decodes an image file into a texture. The format is detected from the
// file header.
func Load(filename string) (*Texture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	t := FromImage(img)
	if t.Width == 0 || t.Height == 0 {
		return nil, fmt.Errorf("image %s is empty", filename)
	}
	return t, nil
}

// LoadSet loads the disk texture and the six skybox faces from dir.
// Any missing or undecodable file fails the whole set.
func LoadSet(dir string) (*Set, error) {
	disk, err := Load(filepath.Join(dir, DiskFile))
	if err != nil {
		return nil, fmt.Errorf("accretion disk: %w", err)
	}

	var faces [FaceCount]*Texture
	for face, name := range FaceFiles {
		faces[face], err = Load(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("skybox %s: %w", Face(face), err)
		}
	}

	return &Set{Disk: disk, Skybox: NewSkybox(faces)}, nil
}
