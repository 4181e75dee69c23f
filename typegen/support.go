package typegen

import "fmt"

// FileHeader returns the banner placed at the top of every generated file.
func FileHeader(count int) string {
	plural := "s"
	if count == 1 {
		plural = ""
	}
	return fmt.Sprintf(`/* ============================================================================
 * 📦 %d Contentful content type interface%s generated by contentful-typegen 🤖
 * 🛑 DO NOT EDIT THIS FILE — it is auto-generated and overwritten on each build.
 * ========================================================================== */
`, count, plural)
}

// CoreTypes declares the minimal Contentful shapes generated declarations
// refer to, so the output type-checks without any Contentful SDK installed.
const CoreTypes = `export interface Sys {
  id: string;
  type: string;
  createdAt?: string;
  updatedAt?: string;
  revision?: number;
  locale?: string;
}

export interface Link<T extends string = string> {
  sys: {
    id: string;
    linkType: T;
    type: 'Link';
  };
}

export interface EntrySys extends Sys {
  type: 'Entry';
  contentType: Link<'ContentType'>;
  space?: Link<'Space'>;
  environment?: Link<'Environment'>;
}

export interface Entry<T = unknown> {
  sys: EntrySys;
  fields: T;
  metadata?: {
    tags: Link<'Tag'>[];
  };
}

export interface Asset {
  sys: Sys & { type: 'Asset' };
  fields: {
    title?: string;
    description?: string;
    file?: {
      url: string;
      fileName: string;
      contentType: string;
      details?: {
        size?: number;
        image?: { width: number; height: number };
      };
    };
  };
}

export interface Document {
  nodeType: 'document';
  data: Record<string, unknown>;
  content: unknown[];
}`
